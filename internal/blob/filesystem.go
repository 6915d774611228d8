package blob

import (
	"rentcore/internal/infra/blob/fs"
)

// NewFilesystem constructs a filesystem-backed Store rooted at the provided
// path. It returns the Store interface so call sites depend on the
// abstraction rather than the concrete driver.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
