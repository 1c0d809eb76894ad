package canvas

import (
	"fmt"
	"strconv"
	"strings"
)

type Import struct {
	Imports []*ImportItem `json:"imports,omitempty"`
}

type ImportItem struct {
	Alias *string `json:"alias,omitempty"`
	Path  *string `json:"path,omitempty"`
}

// AddImport registers a package path. Adding the same path twice is a no-op,
// two paths sharing an alias is an error.
func (r *Import) AddImport(item *ImportItem) error {
	if item.Path == nil || *item.Path == "" {
		return fmt.Errorf("import path is empty")
	}
	if item.Alias == nil {
		alias := lastSegment(*item.Path)
		item.Alias = &alias
	}
	for _, existing := range r.Imports {
		if *existing.Path == *item.Path {
			return nil
		}
		if *existing.Alias == *item.Alias {
			return fmt.Errorf("import alias %q already used by %s", *item.Alias, *existing.Path)
		}
	}
	r.Imports = append(r.Imports, item)
	return nil
}

func (r *Import) Has(alias string) bool {
	for _, existing := range r.Imports {
		if *existing.Alias == alias {
			return true
		}
	}
	return false
}

// Spec renders the import spec line, omitting an alias equal to the package name.
func (r *ImportItem) Spec() string {
	if *r.Alias == lastSegment(*r.Path) {
		return strconv.Quote(*r.Path)
	}
	return *r.Alias + " " + strconv.Quote(*r.Path)
}

func lastSegment(path string) string {
	segments := strings.Split(path, "/")
	return segments[len(segments)-1]
}
