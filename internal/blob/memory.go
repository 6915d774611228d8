package blob

import (
	memorystore "rentcore/internal/infra/blob/memory"
)

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New() }
