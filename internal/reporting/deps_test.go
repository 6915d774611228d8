package reporting

import (
	"strings"
	"testing"

	"rentcore/testutil"
)

// Reporting is pure derivation over a snapshot; it may depend on the domain
// package but never on stores, services, or adapters.
func TestReportingImportsOnlyDomain(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", func(path string) bool {
		return strings.HasPrefix(path, "rentcore/") && path != "rentcore/pkg/domain"
	}, "reporting depends on the domain snapshot alone")
}
