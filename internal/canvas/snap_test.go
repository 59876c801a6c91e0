package canvas

import (
	"reflect"
	"testing"

	"mockboard/internal/domain"
)

func node(id string, x, y float64) domain.ScreenNode {
	return domain.ScreenNode{ID: id, Position: Point{X: x, Y: y}}
}

func TestResolveSnap_GridScenario(t *testing.T) {
	opts := DefaultSnapOptions()
	opts.GridSnap = true
	opts.GridSize = 20

	res := ResolveSnap("m", Point{X: 133, Y: 47}, []domain.ScreenNode{node("m", 0, 0)}, opts)
	if res.Position != (Point{X: 140, Y: 40}) {
		t.Errorf("got %v, want (140, 40)", res.Position)
	}
	if len(res.Guides) != 0 {
		t.Errorf("expected no guides, got %v", res.Guides)
	}
}

func TestResolveSnap_GridOffLeavesCandidate(t *testing.T) {
	res := ResolveSnap("m", Point{X: 133, Y: 47}, nil, DefaultSnapOptions())
	if res.Position != (Point{X: 133, Y: 47}) {
		t.Errorf("got %v, want candidate unchanged", res.Position)
	}
}

func TestResolveSnap_Alignment(t *testing.T) {
	others := []domain.ScreenNode{node("b", 0, 0)}
	tests := []struct {
		name      string
		candidate Point
		want      Point
		kind      GuideKind
	}{
		{"left-left", Point{X: 5, Y: 3000}, Point{X: 0, Y: 3000}, GuideEdge},
		{"left-right", Point{X: 380, Y: 3000}, Point{X: 375, Y: 3000}, GuideEdge},
		{"right-left", Point{X: -370, Y: 3000}, Point{X: -375, Y: 3000}, GuideEdge},
		{"gap after", Point{X: 440, Y: 3000}, Point{X: 435, Y: 3000}, GuideGap},
		{"gap before", Point{X: -431, Y: 3000}, Point{X: -435, Y: 3000}, GuideGap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ResolveSnap("m", tt.candidate, others, DefaultSnapOptions())
			if res.Position != tt.want {
				t.Fatalf("got %v, want %v", res.Position, tt.want)
			}
			if len(res.Guides) != 1 || res.Guides[0].Axis != AxisX || res.Guides[0].Kind != tt.kind {
				t.Errorf("guides = %+v, want one %s guide on x", res.Guides, tt.kind)
			}
		})
	}
}

func TestResolveSnap_VerticalGapAdjacency(t *testing.T) {
	others := []domain.ScreenNode{node("b", 0, 0)}
	// top edge 4 units away from bottom + gap
	res := ResolveSnap("m", Point{X: 5000, Y: 770 + Gap + 4}, others, DefaultSnapOptions())
	if res.Position.Y != 770+Gap {
		t.Errorf("y = %v, want %v", res.Position.Y, 770+Gap)
	}
	if res.Position.X != 5000 {
		t.Errorf("x = %v, want untouched 5000", res.Position.X)
	}
}

func TestResolveSnap_FirstMatchWins(t *testing.T) {
	b := node("b", 0, 0)
	c := node("c", 4, 0)
	candidate := Point{X: 2, Y: 5000}

	got := ResolveSnap("m", candidate, []domain.ScreenNode{b, c}, DefaultSnapOptions())
	if got.Position.X != 0 {
		t.Errorf("order b,c: x = %v, want 0", got.Position.X)
	}
	got = ResolveSnap("m", candidate, []domain.ScreenNode{c, b}, DefaultSnapOptions())
	if got.Position.X != 4 {
		t.Errorf("order c,b: x = %v, want 4", got.Position.X)
	}
}

func TestResolveSnap_ThresholdScalesWithZoom(t *testing.T) {
	others := []domain.ScreenNode{node("b", 0, 0)}
	candidate := Point{X: 12, Y: 5000}

	opts := DefaultSnapOptions()
	if got := ResolveSnap("m", candidate, others, opts); got.Position.X != 12 {
		t.Errorf("zoom 1: x = %v, want 12 (outside 8 unit threshold)", got.Position.X)
	}
	opts.Zoom = 0.5
	if got := ResolveSnap("m", candidate, others, opts); got.Position.X != 0 {
		t.Errorf("zoom 0.5: x = %v, want 0 (inside 16 unit threshold)", got.Position.X)
	}
}

func TestResolveSnap_AlignmentBeatsGrid(t *testing.T) {
	opts := DefaultSnapOptions()
	opts.GridSnap = true
	res := ResolveSnap("m", Point{X: 3, Y: 5013}, []domain.ScreenNode{node("b", 0, 0)}, opts)
	if res.Position != (Point{X: 0, Y: 5020}) {
		t.Errorf("got %v, want aligned x and grid y (0, 5020)", res.Position)
	}
}

func TestResolveSnap_AlignDisabled(t *testing.T) {
	opts := DefaultSnapOptions()
	opts.Align = false
	res := ResolveSnap("m", Point{X: 3, Y: 3}, []domain.ScreenNode{node("b", 0, 0)}, opts)
	if res.Position != (Point{X: 3, Y: 3}) {
		t.Errorf("got %v, want candidate unchanged", res.Position)
	}
}

func TestResolveSnap_Deterministic(t *testing.T) {
	others := []domain.ScreenNode{node("a", 0, 0), node("b", 435, 0), node("c", 0, 870)}
	opts := DefaultSnapOptions()
	opts.GridSnap = true
	candidate := Point{X: 441, Y: 866}

	first := ResolveSnap("m", candidate, others, opts)
	second := ResolveSnap("m", candidate, others, opts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
}
