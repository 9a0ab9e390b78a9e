// Package comment extracts purpose-tagged comments from source files using
// a registry of per-language comment syntax descriptors. It is a scanner,
// not a parser: it tolerates malformed and partial input and never fails on
// file content.
package comment

import (
	"fmt"
	"strings"
	"sync"
)

// Syntax describes the comment markers of one language family.
type Syntax struct {
	// Name labels the language, for diagnostics only.
	Name string
	// Extensions are the file extensions handled by this syntax,
	// including the leading dot. Matching is case-insensitive.
	Extensions []string
	// Line is the single-line comment marker, empty if the language has
	// none.
	Line string
	// BlockStart and BlockEnd delimit multi-line comments. Both empty if
	// the language has none. They may be equal (Python docstrings).
	BlockStart string
	BlockEnd   string
}

// Registry maps lowercased file extensions to comment syntaxes. Extensions
// are unique across the registry; it is populated at startup via Register
// calls rather than resolved dynamically.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]Syntax
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Syntax)}
}

// Register adds a syntax for all its extensions. A syntax with no markers
// at all, or an extension already registered, is rejected.
func (r *Registry) Register(s Syntax) error {
	if s.Line == "" && s.BlockStart == "" {
		return fmt.Errorf("syntax %q has no comment markers", s.Name)
	}
	if (s.BlockStart == "") != (s.BlockEnd == "") {
		return fmt.Errorf("syntax %q has an unpaired block marker", s.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range s.Extensions {
		key := normalizeExt(ext)
		if _, dup := r.byExt[key]; dup {
			return fmt.Errorf("extension %s already registered", key)
		}
		r.byExt[key] = s
	}
	return nil
}

// Lookup resolves the syntax for a file extension. The second return is
// false for unsupported extensions, which callers treat as "skip silently",
// not as an error.
func (r *Registry) Lookup(ext string) (Syntax, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byExt[normalizeExt(ext)]
	return s, ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// DefaultRegistry returns a registry preloaded with the built-in language
// table.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	builtin := []Syntax{
		{Name: "python", Extensions: []string{".py"}, Line: "#", BlockStart: `"""`, BlockEnd: `"""`},
		{Name: "c-like", Extensions: []string{".go", ".js", ".jsx", ".ts", ".tsx", ".java", ".c", ".h", ".cpp", ".hpp", ".cs", ".swift", ".kt", ".rs", ".scala", ".php"}, Line: "//", BlockStart: "/*", BlockEnd: "*/"},
		{Name: "css", Extensions: []string{".css", ".scss", ".less"}, BlockStart: "/*", BlockEnd: "*/"},
		{Name: "markup", Extensions: []string{".html", ".htm", ".xml", ".md", ".vue", ".svelte"}, BlockStart: "<!--", BlockEnd: "-->"},
		{Name: "hash", Extensions: []string{".sh", ".bash", ".rb", ".pl", ".yml", ".yaml", ".toml", ".tf", ".mk", ".dockerfile"}, Line: "#"},
		{Name: "sql", Extensions: []string{".sql"}, Line: "--", BlockStart: "/*", BlockEnd: "*/"},
		{Name: "lua", Extensions: []string{".lua"}, Line: "--"},
	}
	for _, s := range builtin {
		// The built-in table has no duplicate extensions.
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}
