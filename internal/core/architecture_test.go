package core

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestStorageDriversStayBelowTheService ensures the storage driver packages
// never import the service or CLI layers. Drivers implement the
// domain.DocumentStore interface and must stay ignorant of who calls them.
func TestStorageDriversStayBelowTheService(t *testing.T) {
	driverPrefix := "siteledger/internal/storage"
	forbidden := []string{
		"siteledger/internal/core",
		"siteledger/internal/cli",
		"siteledger/internal/collection",
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "siteledger/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		if !strings.HasPrefix(pkg.PkgPath, driverPrefix) {
			continue
		}
		for importPath := range pkg.Imports {
			for _, f := range forbidden {
				if importPath == f || strings.HasPrefix(importPath, f+"/") {
					seen[pkg.PkgPath+": "+importPath] = struct{}{}
				}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden upward import from storage driver: %s", v)
		}
		t.Fatalf("found %d forbidden imports in storage drivers", len(violations))
	}
}
