package canvas

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"mockboard/internal/domain"
)

func TestRenderPath(t *testing.T) {
	b := RenderPath(Point{}, Point{X: 500, Y: 1000})
	want := Bezier{
		Start:    Point{X: 187.5, Y: 770},
		Control1: Point{X: 187.5, Y: 850},
		Control2: Point{X: 687.5, Y: 920},
		End:      Point{X: 687.5, Y: 1000},
	}
	if b != want {
		t.Errorf("got %+v, want %+v", b, want)
	}
	if b.At(0) != b.Start || b.At(1) != b.End {
		t.Errorf("curve endpoints %v..%v do not match %v..%v", b.At(0), b.At(1), b.Start, b.End)
	}
	if !strings.HasPrefix(b.SVGPath(), "M 187.5 770 C") {
		t.Errorf("svg = %q", b.SVGPath())
	}
}

func TestParseConnectionType(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.ConnectionType
		wantErr bool
	}{
		{"", domain.ConnectionTap, false},
		{"tap", domain.ConnectionTap, false},
		{"SWIPE", domain.ConnectionSwipe, false},
		{" back ", domain.ConnectionBack, false},
		{"pinch", "", true},
	}
	for _, tt := range tests {
		got, err := ParseConnectionType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownConnectionType) {
				t.Errorf("ParseConnectionType(%q) err = %v, want ErrUnknownConnectionType", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseConnectionType(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestLegendCoversEveryType(t *testing.T) {
	legend := Legend()
	if len(legend) != len(domain.ConnectionTypes) {
		t.Fatalf("legend has %d entries, want %d", len(legend), len(domain.ConnectionTypes))
	}
	seen := map[string]bool{}
	for _, e := range legend {
		if e.Style.Color == "" || e.Style.DisplayName == "" {
			t.Errorf("type %s has an incomplete style %+v", e.Type, e.Style)
		}
		if seen[e.Style.Color] {
			t.Errorf("colour %s reused", e.Style.Color)
		}
		seen[e.Style.Color] = true
	}
}

func TestGraph_AddUpdateRemove(t *testing.T) {
	m := NewModel([]domain.ScreenNode{node("a", 0, 0), node("b", 435, 0)})
	g := NewGraph(nil)

	i := g.Add("a", "b", "")
	c, _ := g.At(i)
	if c.Type != domain.ConnectionTap || c.ID == "" {
		t.Fatalf("added %+v, want a tap edge with an id", c)
	}

	e, ok := g.Render(i, m)
	if !ok || e.Label != "Tap" {
		t.Fatalf("render = %+v, %v; want default label Tap", e, ok)
	}

	label := "Login"
	swipe := domain.ConnectionSwipe
	if !g.Update(i, ConnectionPatch{Type: &swipe, Label: &label}) {
		t.Fatal("update failed")
	}
	e, _ = g.Render(i, m)
	if e.Label != "Login" || !reflect.DeepEqual(e.Style, StyleFor(domain.ConnectionSwipe)) {
		t.Errorf("after update: label %q style %+v", e.Label, e.Style)
	}

	bad := domain.ConnectionType("pinch")
	if g.Update(i, ConnectionPatch{Type: &bad}) {
		t.Error("update with an unknown type should fail")
	}
	if g.Update(7, ConnectionPatch{Label: &label}) {
		t.Error("update of a stale index should fail")
	}
	if g.Remove(-1) || g.Remove(1) {
		t.Error("remove of a stale index should fail")
	}
	if !g.Remove(i) || g.Len() != 0 {
		t.Errorf("remove left %d edges", g.Len())
	}
}

func TestGraph_DanglingEdgesSurvive(t *testing.T) {
	m := NewModel([]domain.ScreenNode{node("a", 0, 0), node("b", 435, 0), node("c", 870, 0)})
	g := NewGraph(nil)
	g.Add("a", "b", domain.ConnectionTap)
	g.Add("b", "c", domain.ConnectionAuto)
	g.Add("a", "c", domain.ConnectionLink)

	m.Remove("b")

	if g.Len() != 3 {
		t.Errorf("graph has %d edges, want all 3 kept", g.Len())
	}
	visible := g.Visible(m)
	if len(visible) != 1 || visible[0].Index != 2 {
		t.Errorf("visible = %+v, want only edge 2", visible)
	}

	m.Add(node("b", 0, 900))
	if got := len(g.Visible(m)); got != 3 {
		t.Errorf("after b returns %d visible, want 3", got)
	}
}

func TestGraph_InteractiveConnection(t *testing.T) {
	g := NewGraph(nil)
	if _, ok := g.CompleteConnection("b", ""); ok {
		t.Fatal("complete without a source should fail")
	}
	g.StartConnection("a")
	i, ok := g.CompleteConnection("a", domain.ConnectionBack)
	if !ok {
		t.Fatal("complete failed")
	}
	c, _ := g.At(i)
	if c.From != "a" || c.To != "a" || c.Type != domain.ConnectionBack {
		t.Errorf("self loop stored as %+v", c)
	}
	if _, pending := g.Pending(); pending {
		t.Error("source still pending after completion")
	}
}
