package blob

import (
	"context"
	"fmt"
	"os"

	infras3 "rentcore/internal/infra/blob/s3"
)

// Open selects a Store implementation from environment variables.
//
//	RENTCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	RENTCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./artifacts)
//	(S3 variables are documented in the s3 driver package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("RENTCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("RENTCORE_BLOB_FS_ROOT"))
	case DriverS3:
		return infras3.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
