package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/reedfamily/a2sbot/internal/db"
	"github.com/reedfamily/a2sbot/internal/plugin"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.Migrate(database); err != nil {
		t.Fatal(err)
	}
	return NewStore(database)
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"ip", "ipt", "findt"} {
		inv := plugin.Invocation{
			ID:     name,
			Kind:   "command",
			Name:   name,
			Args:   "1.2.3.4",
			OK:     i != 2,
			Millis: int64(i),
		}
		if !inv.OK {
			inv.ErrorKind = "not_found"
		}
		if err := s.Record(ctx, inv); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "findt" || got[0].OK || got[0].ErrorKind != "not_found" {
		t.Errorf("newest = %+v", got[0])
	}
	if got[1].Name != "ipt" || !got[1].OK {
		t.Errorf("second = %+v", got[1])
	}
	if got[0].CreatedAt == "" {
		t.Error("created_at should be set by the database")
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("default limit returned %d rows", len(all))
	}
}

func TestListEmpty(t *testing.T) {
	got, err := newTestStore(t).List(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty slice", got)
	}
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Record(ctx, plugin.Invocation{ID: "new", Kind: "command", Name: "ip", OK: true})
	if _, err := s.db.Exec(
		`INSERT INTO invocations (id, kind, name, ok, created_at) VALUES ('old', 'tool', 'x', 1, '2000-01-01 00:00:00')`,
	); err != nil {
		t.Fatal(err)
	}

	n, err := s.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}
	left, _ := s.List(ctx, 10)
	if len(left) != 1 || left[0].ID != "new" {
		t.Errorf("remaining = %+v", left)
	}
}
