// Package detect classifies a project root by inspecting marker files among
// its immediate children. The result is only ever used as a key into the
// auto-exclude suggestion table; it is never persisted as analysis state.
package detect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Type tags a detected project ecosystem.
type Type string

const (
	TypeNextJS   Type = "nextjs"
	TypeNodeJS   Type = "nodejs"
	TypePython   Type = "python"
	TypeDatabase Type = "database"
	TypeWeb      Type = "web"
	// TypeGeneric is the fallback for unrecognized layouts. It maps to a
	// minimal auto-exclude suggestion set, never to an error.
	TypeGeneric Type = "generic"
)

// markerRule matches root-level evidence for one project type. Rules are
// evaluated in a fixed priority order so detection is deterministic
// regardless of filesystem listing order.
type markerRule struct {
	typ   Type
	match func(root string, entries []os.DirEntry) bool
}

// rules is the documented priority order: the first matching rule wins.
// More specific ecosystems come first (a Next.js root is also a Node.js
// root and usually a web root).
var rules = []markerRule{
	{TypeNextJS, matchNextJS},
	{TypeNodeJS, hasAnyName("package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "node_modules")},
	{TypePython, matchPython},
	{TypeDatabase, hasAnyName("schema.prisma", "prisma", "migrations")},
	{TypeWeb, hasAnyExt(".html", ".css", ".js", ".ts", ".jsx", ".tsx")},
}

// Detect classifies the project at root. Only the root's immediate
// children are examined, never the tree below. An unreadable or missing
// root is the only error; an unrecognized layout yields TypeGeneric.
func Detect(root string) (Type, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return TypeGeneric, fmt.Errorf("read project root: %w", err)
	}
	for _, r := range rules {
		if r.match(root, entries) {
			return r.typ, nil
		}
	}
	return TypeGeneric, nil
}

// DetectAll returns every matching type in priority order, for callers
// that want suggestions from all detected ecosystems at once (a Next.js
// repo benefits from the Node.js and web suggestion tables too). An
// unrecognized layout yields [generic].
func DetectAll(root string) ([]Type, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read project root: %w", err)
	}
	var types []Type
	for _, r := range rules {
		if r.match(root, entries) {
			types = append(types, r.typ)
		}
	}
	if len(types) == 0 {
		types = append(types, TypeGeneric)
	}
	return types, nil
}

func hasAnyName(names ...string) func(string, []os.DirEntry) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(_ string, entries []os.DirEntry) bool {
		for _, e := range entries {
			if set[e.Name()] {
				return true
			}
		}
		return false
	}
}

func hasAnyExt(exts ...string) func(string, []os.DirEntry) bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[ext] = true
	}
	return func(_ string, entries []os.DirEntry) bool {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if set[strings.ToLower(filepath.Ext(e.Name()))] {
				return true
			}
		}
		return false
	}
}

func matchNextJS(root string, entries []os.DirEntry) bool {
	for _, e := range entries {
		switch e.Name() {
		case "next.config.js", "next.config.mjs", "next.config.ts":
			return true
		}
	}
	// A package.json declaring a next dependency is also decisive. The
	// read stays within the root's immediate children.
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return false
	}
	return strings.Contains(string(data), `"next"`)
}

func matchPython(_ string, entries []os.DirEntry) bool {
	markers := map[string]bool{
		"pyproject.toml":   true,
		"setup.py":         true,
		"requirements.txt": true,
		"Pipfile":          true,
	}
	for _, e := range entries {
		if markers[e.Name()] {
			return true
		}
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".py") {
			return true
		}
	}
	return false
}
