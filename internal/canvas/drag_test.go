package canvas

import (
	"testing"

	"mockboard/internal/domain"
)

func noAlign() SnapOptions {
	opts := DefaultSnapOptions()
	opts.Align = false
	return opts
}

func newDragFixture() (*Model, *Selection, *DragController) {
	m := NewModel([]domain.ScreenNode{
		node("a", 0, 0),
		node("b", 1000, 0),
		node("c", 0, 2000),
	})
	sel := NewSelection()
	return m, sel, NewDragController(m, sel)
}

func TestDrag_SingleNode(t *testing.T) {
	m, _, d := newDragFixture()
	cam := NewCamera()

	if !d.Press("a", Point{X: 10, Y: 10}) {
		t.Fatal("press on a should start a gesture")
	}
	if d.State() != DragPressed {
		t.Fatalf("state = %s, want pressed", d.State())
	}
	u := d.Move(Point{X: 110, Y: 60}, cam, noAlign())
	if !u.Moved || d.State() != DragDragging {
		t.Fatalf("expected drag to start, got %+v in state %s", u, d.State())
	}
	out := d.Release(Modifiers{})
	if out.Kind != OutcomeDrag {
		t.Fatalf("outcome = %v, want drag", out.Kind)
	}
	if got := out.Positions["a"]; got != (Point{X: 100, Y: 50}) {
		t.Errorf("a = %v, want (100, 50)", got)
	}
	if p, _ := m.Position("b"); p != (Point{X: 1000}) {
		t.Errorf("b moved to %v", p)
	}
	if d.State() != DragIdle {
		t.Errorf("state after release = %s, want idle", d.State())
	}
}

func TestDrag_DeltaScalesWithZoom(t *testing.T) {
	m, _, d := newDragFixture()
	cam := Camera{Zoom: 0.5, Pan: Point{X: 300, Y: 300}}

	d.Press("a", Point{X: 300, Y: 300})
	d.Move(Point{X: 350, Y: 300}, cam, noAlign())
	d.Release(Modifiers{})

	if p, _ := m.Position("a"); p != (Point{X: 100}) {
		t.Errorf("a = %v, want (100, 0)", p)
	}
}

func TestDrag_JitterStaysPressed(t *testing.T) {
	m, _, d := newDragFixture()
	d.Press("a", Point{})
	u := d.Move(Point{X: 2, Y: 2}, NewCamera(), noAlign())
	if u.Moved || d.State() != DragPressed {
		t.Errorf("move within jitter started a drag: %+v, state %s", u, d.State())
	}
	if p, _ := m.Position("a"); p != (Point{}) {
		t.Errorf("a moved to %v", p)
	}
}

func TestDrag_SnapsAgainstStaticNodes(t *testing.T) {
	m, _, d := newDragFixture()
	cam := Camera{Zoom: 0.5}

	// right edge of a lands 3 world units short of b's left edge
	d.Press("a", Point{})
	u := d.Move(Point{X: 622 * 0.5}, cam, DefaultSnapOptions())
	if len(u.Guides) == 0 {
		t.Fatal("expected a guide")
	}
	if p, _ := m.Position("a"); p != (Point{X: 625}) {
		t.Errorf("a = %v, want (625, 0)", p)
	}
}

func TestDrag_RigidMultiDrag(t *testing.T) {
	m, sel, d := newDragFixture()
	sel.Replace([]string{"a", "c"})
	before := map[string]Point{}
	for _, id := range []string{"a", "c"} {
		before[id], _ = m.Position(id)
	}

	d.Press("a", Point{X: 10, Y: 10})
	d.Move(Point{X: 60, Y: 30}, NewCamera(), DefaultSnapOptions())
	d.Move(Point{X: 110, Y: 60}, NewCamera(), DefaultSnapOptions())
	out := d.Release(Modifiers{})

	if len(out.Positions) != 2 {
		t.Fatalf("moved %d nodes, want 2", len(out.Positions))
	}
	want := Point{X: 100, Y: 50}
	for id, p := range out.Positions {
		if got := p.Sub(before[id]); got != want {
			t.Errorf("%s moved by %v, want %v", id, got, want)
		}
	}
	if p, _ := m.Position("b"); p != (Point{X: 1000}) {
		t.Errorf("unselected b moved to %v", p)
	}
}

func TestDrag_PressOnUnselectedMovesOnlyThatNode(t *testing.T) {
	m, sel, d := newDragFixture()
	sel.Replace([]string{"a", "c"})

	d.Press("b", Point{})
	d.Move(Point{X: 100}, NewCamera(), noAlign())
	d.Release(Modifiers{})

	if p, _ := m.Position("a"); p != (Point{}) {
		t.Errorf("a moved to %v", p)
	}
	if p, _ := m.Position("b"); p != (Point{X: 1100}) {
		t.Errorf("b = %v, want (1100, 0)", p)
	}
}

func TestDrag_CancelRestoresSnapshot(t *testing.T) {
	m, sel, d := newDragFixture()
	sel.Replace([]string{"a", "b", "c"})
	before := m.Positions()

	d.Press("b", Point{})
	d.Move(Point{X: 333, Y: -120}, NewCamera(), noAlign())
	if !d.Cancel() {
		t.Fatal("cancel of an active drag should report true")
	}
	for id, p := range before {
		if got, _ := m.Position(id); got != p {
			t.Errorf("%s = %v, want restored %v", id, got, p)
		}
	}
	if d.Cancel() {
		t.Error("cancel while idle should report false")
	}
}

func TestDrag_NodeRemovedMidGesture(t *testing.T) {
	m, _, d := newDragFixture()
	d.Press("a", Point{})
	m.Remove("a")

	u := d.Move(Point{X: 100}, NewCamera(), noAlign())
	if !u.Aborted {
		t.Error("expected the gesture to abort")
	}
	if d.State() != DragIdle {
		t.Errorf("state = %s, want idle", d.State())
	}
}

func TestDrag_ClickRules(t *testing.T) {
	_, sel, d := newDragFixture()
	click := func(id string, mods Modifiers) {
		t.Helper()
		d.Press(id, Point{})
		if out := d.Release(mods); out.Kind != OutcomeClick {
			t.Fatalf("click on %s gave outcome %v", id, out.Kind)
		}
	}

	click("a", Modifiers{})
	if sel.Primary() != "a" || sel.Len() != 1 {
		t.Fatalf("after click a: primary %q, %d selected", sel.Primary(), sel.Len())
	}

	click("b", Modifiers{Shift: true})
	if !sel.Has("a") || !sel.Has("b") || sel.Primary() != "a" {
		t.Fatalf("after shift-click b: %v, primary %q", sel.IDs(), sel.Primary())
	}

	click("b", Modifiers{Shift: true})
	if sel.Has("b") {
		t.Fatal("second shift-click should deselect b")
	}

	click("a", Modifiers{})
	if sel.Len() != 0 || sel.Primary() != "" {
		t.Errorf("click on primary should clear, got %v primary %q", sel.IDs(), sel.Primary())
	}

	click("c", Modifiers{})
	if got := sel.IDs(); len(got) != 1 || got[0] != "c" || sel.Primary() != "c" {
		t.Errorf("click c: %v primary %q", got, sel.Primary())
	}
}

func TestDrag_PressUnknownNode(t *testing.T) {
	_, _, d := newDragFixture()
	if d.Press("missing", Point{}) {
		t.Error("press on unknown id should be ignored")
	}
	if d.State() != DragIdle {
		t.Errorf("state = %s, want idle", d.State())
	}
}
