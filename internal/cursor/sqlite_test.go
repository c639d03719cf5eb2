package cursor

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	logx "github.com/lcy0321/TwitterDiscordBot/pkg/logx"
)

func openTestSQLiteStore(t *testing.T) Store {
	t.Helper()
	s, err := Open(Config{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "cursors.db"),
		BusyTimeout: time.Second,
	}, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteFreshStoreIsEmpty(t *testing.T) {
	t.Parallel()
	s := openTestSQLiteStore(t)

	m, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on fresh store: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty mapping, got %v", m)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTestSQLiteStore(t)
	ctx := context.Background()

	want := map[string]string{"someuser": "12345", "OTHER": "99"}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	folded := map[string]string{"someuser": "12345", "other": "99"}
	if !reflect.DeepEqual(got, folded) {
		t.Fatalf("Load = %v, want %v", got, folded)
	}
}

func TestSQLiteSaveReplacesWholesale(t *testing.T) {
	t.Parallel()
	s := openTestSQLiteStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, map[string]string{"gone": "1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, map[string]string{"kept": "2"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, map[string]string{"kept": "2"}) {
		t.Fatalf("Load = %v", got)
	}
}
