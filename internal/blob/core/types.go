// Package core defines the storage abstractions shared by every blob
// backend. Higher layers hand export artifacts and document backups to a
// Store without knowing whether bytes land on disk, in memory, or in S3.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete blob storage backend.
type Driver string

const (
	// DriverFilesystem stores blobs under a local directory (default, dev).
	DriverFilesystem Driver = "fs"
	// DriverS3 targets AWS S3 or any MinIO-compatible endpoint.
	DriverS3 Driver = "s3"
	// DriverMemory keeps blobs in process memory, for tests.
	DriverMemory Driver = "memory"
)

// PutOptions carries the optional parameters of a blob write.
type PutOptions struct {
	ContentType string            // MIME type, optional
	Metadata    map[string]string // small flat key-value user metadata
}

// SignedURLOptions configures pre-signed URL generation.
type SignedURLOptions struct {
	Method  string        // GET|PUT; only GET is used internally
	Expiry  time.Duration // default 15m
	Headers map[string]string
}

// Info describes a stored blob.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	URL          string            `json:"url,omitempty"`
}

// Store is a thin S3-like abstraction. The semantics mirror a minimal S3
// subset so the S3 adapter stays nearly 1:1 while the filesystem adapter can
// emulate them.
type Store interface {
	// Put stores a new blob at key. Fails if the key already exists.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	// Get retrieves contents and metadata. Missing keys surface an
	// os.ErrNotExist style error.
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	// Head returns metadata only.
	Head(ctx context.Context, key string) (Info, error)
	// Delete removes a blob, returning (false, nil) when it was absent.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns blobs whose key carries the prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	// PresignURL returns a time-limited GET URL, or ErrUnsupported.
	PresignURL(ctx context.Context, key string, opts SignedURLOptions) (string, error)
	// Driver reports the backend in use.
	Driver() Driver
}

// ErrUnsupported is returned when an optional capability is not available.
var ErrUnsupported = errors.New("blobstore: unsupported operation")
