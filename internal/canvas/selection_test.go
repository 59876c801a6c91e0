package canvas

import (
	"reflect"
	"testing"

	"mockboard/internal/domain"
)

func TestSelection_PrimaryIsAlwaysMember(t *testing.T) {
	s := NewSelection()
	s.Select("a")
	s.Toggle("b")
	s.Toggle("a")
	if s.Primary() != "" {
		t.Errorf("primary %q survived its removal", s.Primary())
	}

	s.Select("b")
	s.Replace([]string{"c", "d"})
	if s.Primary() != "" {
		t.Errorf("primary %q survived a replace without it", s.Primary())
	}

	s.Select("c")
	s.Replace([]string{"c", "d"})
	if s.Primary() != "c" {
		t.Errorf("primary = %q, want c kept", s.Primary())
	}
}

func TestSelection_Prune(t *testing.T) {
	s := NewSelection()
	s.Replace([]string{"a", "b", "c"})
	s.Select("b")
	s.Replace([]string{"a", "b", "c"})

	n := s.Prune(func(id string) bool { return id != "b" })
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
	if !reflect.DeepEqual(s.IDs(), []string{"a", "c"}) {
		t.Errorf("ids = %v", s.IDs())
	}
	if s.Primary() != "" {
		t.Errorf("primary = %q, want cleared", s.Primary())
	}
}

func TestBandSelect(t *testing.T) {
	m := NewModel([]domain.ScreenNode{
		node("a", 0, 0),
		node("b", 400, 0),
		node("c", 2000, 2000),
	})
	tests := []struct {
		name       string
		cam        Camera
		start, end Point // world
		want       []string
	}{
		{"identity", NewCamera(), Point{X: -10, Y: -10}, Point{X: 800, Y: 800}, []string{"a", "b"}},
		{"zoomed and panned", Camera{Zoom: 0.5, Pan: Point{X: 100, Y: 50}}, Point{X: -10, Y: -10}, Point{X: 800, Y: 800}, []string{"a", "b"}},
		{"reversed drag", NewCamera(), Point{X: 800, Y: 800}, Point{X: -10, Y: -10}, []string{"a", "b"}},
		{"touching edge only", NewCamera(), Point{X: 375, Y: 0}, Point{X: 390, Y: 100}, nil},
		{"empty area", NewCamera(), Point{X: 5000, Y: 5000}, Point{X: 6000, Y: 6000}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b BandSelect
			b.Begin(tt.cam.WorldToScreen(tt.start))
			b.Update(tt.cam.WorldToScreen(tt.end))
			got := b.End(m, tt.cam)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if b.Active() {
				t.Error("band still active after End")
			}
		})
	}
}

func TestModel_NodeAtPrefersFront(t *testing.T) {
	m := NewModel([]domain.ScreenNode{node("a", 0, 0), node("b", 100, 100)})
	p := Point{X: 200, Y: 200}
	if id, _ := m.NodeAt(p); id != "b" {
		t.Fatalf("NodeAt = %q, want b (added last)", id)
	}
	m.BringToFront("a")
	if id, _ := m.NodeAt(p); id != "a" {
		t.Errorf("NodeAt = %q, want a after BringToFront", id)
	}
	if _, ok := m.NodeAt(Point{X: -1, Y: -1}); ok {
		t.Error("expected no node at (-1,-1)")
	}
}

func TestModel_AddRejectsDuplicates(t *testing.T) {
	m := NewModel([]domain.ScreenNode{node("a", 0, 0)})
	if m.Add(node("a", 5, 5)) {
		t.Error("duplicate id accepted")
	}
	if m.Add(node("", 5, 5)) {
		t.Error("empty id accepted")
	}
	if p, _ := m.Position("a"); p != (Point{}) {
		t.Errorf("a = %v, want untouched", p)
	}
}
