package app

import (
	"context"
	"testing"
)

type fakeRevisions struct {
	board map[string]string
	list  string
}

func (f *fakeRevisions) Revision(id string) (string, error) { return f.board[id], nil }
func (f *fakeRevisions) ListRevision() (string, error)      { return f.list, nil }

type recordedEvent struct {
	name string
	data any
}

func newTestWatcher(src *fakeRevisions, current *string) (*boardWatcher, *[]recordedEvent) {
	var events []recordedEvent
	w := newBoardWatcher(context.Background(), src, func() string { return *current }, func(e string, d any) {
		events = append(events, recordedEvent{e, d})
	})
	return w, &events
}

func TestBoardWatcher_FirstCheckIsBaseline(t *testing.T) {
	src := &fakeRevisions{board: map[string]string{"c1": "1"}, list: "1"}
	current := "c1"
	w, events := newTestWatcher(src, &current)

	w.check()
	if len(*events) != 0 {
		t.Errorf("baseline emitted %v", *events)
	}
}

func TestBoardWatcher_ExternalChange(t *testing.T) {
	src := &fakeRevisions{board: map[string]string{"c1": "1"}, list: "1"}
	current := "c1"
	w, events := newTestWatcher(src, &current)
	w.check()

	src.board["c1"] = "2"
	w.check()
	if len(*events) != 1 || (*events)[0].name != EventExternalBoardChange {
		t.Fatalf("events = %v, want one board change", *events)
	}

	src.list = "2"
	w.check()
	if len(*events) != 2 || (*events)[1].name != EventExternalCollectionsChange {
		t.Errorf("events = %v, want a collections change", *events)
	}
}

func TestBoardWatcher_IgnoresLocalWrites(t *testing.T) {
	src := &fakeRevisions{board: map[string]string{"c1": "1"}, list: "1"}
	current := "c1"
	w, events := newTestWatcher(src, &current)
	w.check()

	w.markLocal()
	src.board["c1"] = "2"
	w.check()
	if len(*events) != 0 {
		t.Fatalf("local write emitted %v", *events)
	}

	// Only the next poll after a local write is skipped
	src.board["c1"] = "3"
	w.check()
	if len(*events) != 1 {
		t.Errorf("events = %v, want one external change", *events)
	}
}

func TestBoardWatcher_SwitchingCollectionResetsBaseline(t *testing.T) {
	src := &fakeRevisions{board: map[string]string{"c1": "1", "c2": "9"}, list: "1"}
	current := "c1"
	w, events := newTestWatcher(src, &current)
	w.check()

	current = "c2"
	w.check()
	if len(*events) != 0 {
		t.Errorf("switch emitted %v", *events)
	}
}

func TestWailsEmitter_MarksLocalBeforeBind(t *testing.T) {
	var events []recordedEvent
	w := newBoardWatcher(context.Background(), nil, nil, func(e string, d any) {
		events = append(events, recordedEvent{e, d})
	})

	var sent []string
	em := wailsEmitter{
		ctx:     context.Background(),
		watcher: w,
		send: func(_ context.Context, event string, _ ...interface{}) {
			sent = append(sent, event)
		},
	}

	done := make(chan struct{})
	go func() {
		em.Emit(context.Background(), "board:changed", nil)
		close(done)
	}()
	// Unbound: nothing to poll yet
	w.check()
	<-done

	src := &fakeRevisions{board: map[string]string{"c1": "1"}, list: "1"}
	current := "c1"
	w.bind(src, func() string { return current })
	w.check()

	// The emission above counts as a local write, so this change is ignored
	src.board["c1"] = "2"
	em.Emit(context.Background(), "board:positions", nil)
	w.check()

	if len(sent) != 2 {
		t.Errorf("sent = %v, want both events forwarded", sent)
	}
	if len(events) != 0 {
		t.Errorf("external events = %v, want none for local writes", events)
	}
}
