package blob

import (
	"context"

	infras3 "rentcore/internal/infra/blob/s3"
)

// S3Config carries the explicit S3 construction parameters.
type S3Config = infras3.Config

// NewS3 constructs an S3-backed Store from the provided configuration.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return infras3.New(ctx, cfg)
}

// NewMockS3ForTests exposes the in-memory S3 mock for cross-package tests.
func NewMockS3ForTests() Store { return infras3.NewMockForTests() }
