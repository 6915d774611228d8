package domain

import (
	"testing"

	"rentcore/testutil"
)

// The domain package is the dependency floor of the module: it must not
// reach back into internal packages.
func TestDomainImportsNoInternalPackages(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain stays at the bottom of the import graph")
}
