package fs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"rentcore/internal/blob/core"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	info, err := store.Put(ctx, "exports/run-1/report.json", strings.NewReader(`{"ok":true}`), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"export": "run-1"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 11 || info.ContentType != "application/json" || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}

	got, rc, err := store.Get(ctx, "exports/run-1/report.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("unexpected body %q", body)
	}
	if got.ETag != info.ETag || got.Metadata["export"] != "run-1" {
		t.Fatalf("metadata lost: %+v", got)
	}
}

func TestPutRejectsExistingKey(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Put(ctx, "a.txt", strings.NewReader("one"), core.PutOptions{}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := store.Put(ctx, "a.txt", strings.NewReader("two"), core.PutOptions{}); err == nil {
		t.Fatalf("expected second put to fail")
	}
}

func TestKeySanitization(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "  ", "../escape", "/abs", "a/../../b"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}

func TestGetMissingKey(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, _, err := store.Get(context.Background(), "nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	if existed, err := store.Delete(ctx, "ghost"); err != nil || existed {
		t.Fatalf("expected (false, nil), got (%v, %v)", existed, err)
	}
	if _, err := store.Put(ctx, "real", strings.NewReader("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if existed, err := store.Delete(ctx, "real"); err != nil || !existed {
		t.Fatalf("expected (true, nil), got (%v, %v)", existed, err)
	}
	if _, err := store.Head(ctx, "real"); err == nil {
		t.Fatalf("expected head to fail after delete")
	}
}

func TestListFiltersPrefixAndSorts(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"exports/b.csv", "exports/a.json", "backups/doc.json"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "exports/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "exports/a.json" || infos[1].Key != "exports/b.csv" {
		t.Fatalf("unexpected listing %+v", infos)
	}
	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 blobs, got %d", len(all))
	}
}

func TestPresignURLOnlyGet(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	url, err := store.PresignURL(ctx, "exports/a.json", core.SignedURLOptions{})
	if err != nil || !strings.Contains(url, "local.blob") {
		t.Fatalf("unexpected presign result %q, %v", url, err)
	}
	if _, err := store.PresignURL(ctx, "exports/a.json", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for PUT, got %v", err)
	}
}
