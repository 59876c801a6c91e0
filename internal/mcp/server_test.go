package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"mockboard/internal/canvas"
	"mockboard/internal/domain"
	"mockboard/internal/service"
	"mockboard/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "mcp.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	em := &service.MockEmitter{}
	cfg := canvas.DefaultSessionConfig()
	cfg.Snap.Align = false
	board := service.NewBoardService(
		storage.NewCollectionStore(db),
		storage.NewScreenStore(db),
		storage.NewLayoutStore(db),
		service.NewHistoryService(storage.NewHistoryStore(db), 40, em, nil),
		em, nil, cfg,
	)
	return New(Deps{Board: board})
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func decode(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(resultText(t, res)), v); err != nil {
		t.Fatalf("decode result: %v", err)
	}
}

func TestSplitIDs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{" , a,,", []string{"a"}},
	}
	for _, tt := range tests {
		if got := splitIDs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitIDs(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRequireIndex(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    int
		wantErr bool
	}{
		{"valid", map[string]any{"index": float64(2)}, 2, false},
		{"missing", map[string]any{}, 0, true},
		{"negative", map[string]any{"index": float64(-1)}, 0, true},
		{"fraction", map[string]any{"index": 1.5}, 0, true},
		{"string", map[string]any{"index": "1"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := requireIndex(tt.args, "index")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBoardToolsNeedOpenCollection(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleApplyLayout(context.Background(), call(map[string]any{"strategy": "grid"}))
	if !errors.Is(err, service.ErrNoCollection) {
		t.Errorf("err = %v, want ErrNoCollection", err)
	}
}

func TestToolFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleCreateCollection(ctx, call(map[string]any{"name": "Shop"}))
	if err != nil {
		t.Fatal(err)
	}
	var c domain.Collection
	decode(t, res, &c)
	if c.Name != "Shop" || c.ID == "" {
		t.Fatalf("collection = %+v", c)
	}

	for _, id := range []string{"home", "cart"} {
		if _, err := s.handleRegisterScreen(ctx, call(map[string]any{"screenId": id, "name": id})); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}

	res, err = s.handleApplyLayout(ctx, call(map[string]any{"strategy": "staggered"}))
	if err != nil {
		t.Fatal(err)
	}
	var positions map[string]domain.Point
	decode(t, res, &positions)
	if positions["cart"] != (domain.Point{X: 495, Y: 200}) {
		t.Errorf("cart = %v, want (495,200)", positions["cart"])
	}

	if _, err := s.handleApplyLayout(ctx, call(map[string]any{"strategy": "circle"})); !errors.Is(err, canvas.ErrUnknownLayout) {
		t.Errorf("unknown layout err = %v", err)
	}

	if _, err := s.handleStartConnection(ctx, call(map[string]any{"from": "home"})); err != nil {
		t.Fatal(err)
	}
	res, err = s.handleCompleteConnection(ctx, call(map[string]any{"to": "cart", "type": "swipe"}))
	if err != nil {
		t.Fatal(err)
	}
	var created map[string]int
	decode(t, res, &created)
	if created["index"] != 0 {
		t.Errorf("index = %d, want 0", created["index"])
	}

	if _, err := s.handleUpdateConnection(ctx, call(map[string]any{"index": float64(0), "type": "teleport"})); !errors.Is(err, canvas.ErrUnknownConnectionType) {
		t.Errorf("bad type err = %v", err)
	}
	if _, err := s.handleUpdateConnection(ctx, call(map[string]any{"index": float64(0), "label": "Add to cart"})); err != nil {
		t.Fatal(err)
	}

	res, err = s.handleListConnections(ctx, call(nil))
	if err != nil {
		t.Fatal(err)
	}
	var conns []service.ConnectionInfo
	decode(t, res, &conns)
	if len(conns) != 1 || conns[0].DisplayLabel != "Add to cart" || conns[0].Type != domain.ConnectionSwipe {
		t.Errorf("connections = %+v", conns)
	}

	if _, err := s.handleDeleteConnection(ctx, call(map[string]any{"index": float64(3)})); err == nil {
		t.Error("expected error deleting a missing connection")
	}

	res, err = s.handleSetZoom(ctx, call(map[string]any{"zoom": 0.01}))
	if err != nil {
		t.Fatal(err)
	}
	var cam canvas.Camera
	decode(t, res, &cam)
	if cam.Zoom != canvas.MinZoom {
		t.Errorf("zoom = %v, want %v", cam.Zoom, canvas.MinZoom)
	}

	res, err = s.handleLayoutHistory(ctx, call(nil))
	if err != nil {
		t.Fatal(err)
	}
	var history []struct {
		ID      string `json:"id"`
		Label   string `json:"label"`
		Current bool   `json:"current"`
	}
	decode(t, res, &history)
	if len(history) < 2 || history[0].Label != "initial" || !history[len(history)-1].Current {
		t.Errorf("history = %+v", history)
	}
}
