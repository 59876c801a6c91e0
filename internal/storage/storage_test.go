package storage_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"mockboard/internal/domain"
	"mockboard/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createCollection(t *testing.T, db *storage.DB, id string) {
	t.Helper()
	c := &domain.Collection{ID: id, Name: "App " + id}
	if err := storage.NewCollectionStore(db).CreateCollection(c); err != nil {
		t.Fatalf("create collection: %v", err)
	}
}

func TestNew_MigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.db")
	db, err := storage.New(path)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = storage.New(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	db.Close()
}

func TestCollectionStore_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := storage.NewCollectionStore(db)

	c := &domain.Collection{ID: "c1", Name: "Checkout"}
	if err := store.CreateCollection(c); err != nil {
		t.Fatal(err)
	}
	if c.Zoom != 1 {
		t.Errorf("default zoom = %v, want 1", c.Zoom)
	}

	c.PanX, c.PanY, c.Zoom, c.GridSnap = 120, -40, 0.5, true
	if err := store.UpdateCollection(c); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetCollection("c1")
	if err != nil {
		t.Fatal(err)
	}
	if got.PanX != 120 || got.PanY != -40 || got.Zoom != 0.5 || !got.GridSnap {
		t.Errorf("got %+v", got)
	}

	list, err := store.ListCollections()
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}

	if err := store.DeleteCollection("c1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetCollection("c1"); err == nil {
		t.Error("expected an error for a deleted collection")
	}
}

func TestScreenStore_Order(t *testing.T) {
	db := openTestDB(t)
	createCollection(t, db, "c1")
	store := storage.NewScreenStore(db)

	for _, id := range []string{"login", "home", "settings"} {
		if err := store.CreateScreen(&domain.Screen{ID: id, CollectionID: "c1", Name: id}); err != nil {
			t.Fatal(err)
		}
	}
	screens, err := store.ListScreens("c1")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for i, sc := range screens {
		ids = append(ids, sc.ID)
		if sc.Order != i+1 {
			t.Errorf("%s order = %d, want %d", sc.ID, sc.Order, i+1)
		}
	}
	if !reflect.DeepEqual(ids, []string{"login", "home", "settings"}) {
		t.Errorf("ids = %v", ids)
	}

	if err := store.DeleteScreen("c1", "home"); err != nil {
		t.Fatal(err)
	}
	screens, _ = store.ListScreens("c1")
	if len(screens) != 2 {
		t.Errorf("%d screens after delete, want 2", len(screens))
	}
}

func TestScreenStore_IDsScopedByCollection(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createCollection(t, db, "c1")
	createCollection(t, db, "c2")
	store := storage.NewScreenStore(db)
	layouts := storage.NewLayoutStore(db)

	for _, c := range []string{"c1", "c2"} {
		if err := store.CreateScreen(&domain.Screen{ID: "home", CollectionID: c, Name: "Home"}); err != nil {
			t.Fatalf("create home in %s: %v", c, err)
		}
		if err := layouts.SavePositions(ctx, c, map[string]domain.Point{"home": {X: 435}}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.CreateScreen(&domain.Screen{ID: "home", CollectionID: "c1"}); err == nil {
		t.Error("duplicate id within one collection should fail")
	}

	if err := store.DeleteScreen("c1", "home"); err != nil {
		t.Fatal(err)
	}
	if screens, _ := store.ListScreens("c1"); len(screens) != 0 {
		t.Errorf("c1 screens = %v, want none", screens)
	}
	if screens, _ := store.ListScreens("c2"); len(screens) != 1 {
		t.Errorf("c2 screens = %v, want home kept", screens)
	}
	if got, _ := layouts.LoadPositions(ctx, "c2"); got["home"] != (domain.Point{X: 435}) {
		t.Errorf("c2 positions = %v, want home kept", got)
	}
}

func TestLayoutStore_Positions(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createCollection(t, db, "c1")
	store := storage.NewLayoutStore(db)

	want := map[string]domain.Point{"a": {X: 0, Y: 0}, "b": {X: 435, Y: 12.5}}
	if err := store.SavePositions(ctx, "c1", want); err != nil {
		t.Fatal(err)
	}
	got, err := store.LoadPositions(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// a save replaces the whole set
	if err := store.SavePositions(ctx, "c1", map[string]domain.Point{"b": {X: 1}}); err != nil {
		t.Fatal(err)
	}
	got, _ = store.LoadPositions(ctx, "c1")
	if len(got) != 1 || got["b"] != (domain.Point{X: 1}) {
		t.Errorf("after replace got %v", got)
	}
}

func TestLayoutStore_ConnectionsKeepOrder(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createCollection(t, db, "c1")
	store := storage.NewLayoutStore(db)

	want := []domain.Connection{
		{ID: "e3", From: "b", To: "c", Type: domain.ConnectionSwipe},
		{ID: "e1", From: "a", To: "b", Type: domain.ConnectionTap, Label: "Sign in"},
		{ID: "e2", From: "a", To: "a", Type: domain.ConnectionBack},
	}
	if err := store.SaveConnections(ctx, "c1", want); err != nil {
		t.Fatal(err)
	}
	got, err := store.LoadConnections(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if err := store.DeleteCollection(ctx, "c1"); err != nil {
		t.Fatal(err)
	}
	got, _ = store.LoadConnections(ctx, "c1")
	if len(got) != 0 {
		t.Errorf("%d connections after delete", len(got))
	}
}

func TestHistoryStore_PushAndPrune(t *testing.T) {
	db := openTestDB(t)
	createCollection(t, db, "c1")
	store := storage.NewHistoryStore(db)

	if tree, err := store.LoadTree("c1"); err != nil || tree != nil {
		t.Fatalf("empty history = %v, %v", tree, err)
	}

	ids := []string{"h1", "h2", "h3", "h4", "h5"}
	for i, id := range ids {
		pos := map[string]domain.Point{"a": {X: float64(i)}}
		if _, err := store.Push("c1", id, "move", pos); err != nil {
			t.Fatal(err)
		}
	}

	tree, err := store.LoadTree("c1")
	if err != nil {
		t.Fatal(err)
	}
	if tree.RootID != "h1" || tree.CurrentID != "h5" || len(tree.Entries) != 5 {
		t.Fatalf("tree root %q current %q entries %d", tree.RootID, tree.CurrentID, len(tree.Entries))
	}
	if p := tree.Entries[4].ParentID; p == nil || *p != "h4" {
		t.Errorf("h5 parent = %v, want h4", p)
	}

	n, err := store.Prune("c1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("pruned %d, want 2", n)
	}
	tree, _ = store.LoadTree("c1")
	if tree.RootID != "h3" || len(tree.Entries) != 3 {
		t.Errorf("after prune root %q entries %d", tree.RootID, len(tree.Entries))
	}

	e, err := store.Get("h4")
	if err != nil {
		t.Fatal(err)
	}
	if e.Positions["a"] != (domain.Point{X: 3}) {
		t.Errorf("h4 positions = %v", e.Positions)
	}
}

func TestHistoryStore_PruneKeepsCurrent(t *testing.T) {
	db := openTestDB(t)
	createCollection(t, db, "c1")
	store := storage.NewHistoryStore(db)

	for _, id := range []string{"h1", "h2", "h3"} {
		if _, err := store.Push("c1", id, "layout", map[string]domain.Point{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.GoTo("c1", "h1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Prune("c1", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get("h1"); err != nil {
		t.Errorf("current entry was pruned: %v", err)
	}
	ids, err := store.CollectionIDs()
	if err != nil || !reflect.DeepEqual(ids, []string{"c1"}) {
		t.Errorf("collection ids = %v, %v", ids, err)
	}
}

func TestCollectionStore_RevisionTracksLayoutSaves(t *testing.T) {
	db := openTestDB(t)
	createCollection(t, db, "c1")
	collections := storage.NewCollectionStore(db)
	layouts := storage.NewLayoutStore(db)
	ctx := context.Background()

	before, err := collections.Revision("c1")
	if err != nil {
		t.Fatal(err)
	}
	if err := layouts.SavePositions(ctx, "c1", map[string]domain.Point{"a": {X: 1}}); err != nil {
		t.Fatal(err)
	}
	after, err := collections.Revision("c1")
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Errorf("revision unchanged after save: %q", after)
	}

	if err := storage.NewScreenStore(db).CreateScreen(&domain.Screen{ID: "s1", CollectionID: "c1"}); err != nil {
		t.Fatal(err)
	}
	withScreen, _ := collections.Revision("c1")
	if withScreen == after {
		t.Error("revision unchanged after adding a screen")
	}

	if _, err := collections.Revision("missing"); err == nil {
		t.Error("expected error for unknown collection")
	}
}
