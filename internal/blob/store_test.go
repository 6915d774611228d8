package blob

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestOpenSelectsDriverFromEnv(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Setenv("RENTCORE_BLOB_DRIVER", "memory")
		store, err := Open(ctx)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if store.Driver() != DriverMemory {
			t.Fatalf("expected memory driver, got %s", store.Driver())
		}
	})

	t.Run("fs default", func(t *testing.T) {
		t.Setenv("RENTCORE_BLOB_DRIVER", "")
		t.Setenv("RENTCORE_BLOB_FS_ROOT", t.TempDir())
		store, err := Open(ctx)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if store.Driver() != DriverFilesystem {
			t.Fatalf("expected fs driver, got %s", store.Driver())
		}
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		t.Setenv("RENTCORE_BLOB_DRIVER", "s3")
		t.Setenv("RENTCORE_BLOB_S3_BUCKET", "")
		if _, err := Open(ctx); err == nil {
			t.Fatalf("expected missing-bucket error")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("RENTCORE_BLOB_DRIVER", "tape")
		if _, err := Open(ctx); err == nil || !strings.Contains(err.Error(), "unknown blob driver") {
			t.Fatalf("expected unknown driver error, got %v", err)
		}
	})
}

func TestMockS3RoundTrip(t *testing.T) {
	store := NewMockS3ForTests()
	ctx := context.Background()
	if store.Driver() != DriverS3 {
		t.Fatalf("expected s3 driver, got %s", store.Driver())
	}

	info, err := store.Put(ctx, "exports/run-1/report.html", strings.NewReader("<html></html>"), PutOptions{ContentType: "text/html"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "exports/run-1/report.html" || info.Size != 13 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "exports/run-1/report.html", strings.NewReader("again"), PutOptions{}); err == nil {
		t.Fatalf("expected duplicate put to fail")
	}

	_, rc, err := store.Get(ctx, "exports/run-1/report.html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "<html></html>" {
		t.Fatalf("unexpected body %q", body)
	}

	infos, err := store.List(ctx, "exports/")
	if err != nil || len(infos) != 1 {
		t.Fatalf("list: %v %+v", err, infos)
	}

	url, err := store.PresignURL(ctx, "exports/run-1/report.html", SignedURLOptions{})
	if err != nil || url == "" {
		t.Fatalf("presign: %q %v", url, err)
	}

	if existed, err := store.Delete(ctx, "exports/run-1/report.html"); err != nil || !existed {
		t.Fatalf("delete: (%v, %v)", existed, err)
	}
	if _, err := store.Head(ctx, "exports/run-1/report.html"); err == nil {
		t.Fatalf("expected head to fail after delete")
	}
}
