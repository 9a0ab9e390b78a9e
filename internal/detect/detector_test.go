package detect

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates the given files (and their parent directories) under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestDetectPython(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"requirements.txt": "", "main.py": ""})

	typ, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if typ != TypePython {
		t.Errorf("Detect() = %v, want python", typ)
	}
}

func TestDetectPriorityOrder(t *testing.T) {
	// A Next.js root carries Node.js and web markers too; the fixed
	// priority order must pick nextjs deterministically.
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"next.config.js": "module.exports = {}",
		"package.json":   `{"dependencies":{"next":"14.0.0"}}`,
		"index.html":     "<html></html>",
	})

	typ, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if typ != TypeNextJS {
		t.Errorf("Detect() = %v, want nextjs", typ)
	}

	all, err := DetectAll(dir)
	if err != nil {
		t.Fatalf("DetectAll() error = %v", err)
	}
	want := []Type{TypeNextJS, TypeNodeJS, TypeWeb}
	if len(all) != len(want) {
		t.Fatalf("DetectAll() = %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("DetectAll()[%d] = %v, want %v", i, all[i], want[i])
		}
	}
}

func TestDetectGenericFallback(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"notes.txt": "hello"})

	typ, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if typ != TypeGeneric {
		t.Errorf("Detect() = %v, want generic", typ)
	}
}

func TestDetectIgnoresNestedMarkers(t *testing.T) {
	// Markers below the root's immediate children must not count.
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"sub/project/package.json": "{}"})

	typ, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if typ != TypeGeneric {
		t.Errorf("Detect() = %v, want generic", typ)
	}
}

func TestDetectMissingRoot(t *testing.T) {
	if _, err := Detect(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("Detect() on missing root should fail")
	}
}
