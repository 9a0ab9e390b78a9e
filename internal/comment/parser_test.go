package comment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSingleLine(t *testing.T) {
	p := NewParser(nil, "")
	got := p.Extract([]byte("package main\n\n// GynTree: hello\nfunc main() {}\n"), ".go")
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Text)
	assert.Equal(t, 3, got[0].Line)
}

func TestExtractMultiLineBlockJoinsLines(t *testing.T) {
	p := NewParser(nil, "")
	got := p.Extract([]byte("/* GynTree: multi\nline */\n"), ".c")
	require.Len(t, got, 1)
	assert.Equal(t, "multi line", got[0].Text)
	assert.Equal(t, 1, got[0].Line)
}

func TestExtractTagOnLaterBlockLine(t *testing.T) {
	src := `/*
 * Utility helpers.
 * GynTree: shared string helpers
 */`
	p := NewParser(nil, "")
	got := p.Extract([]byte(src), ".go")
	require.Len(t, got, 1)
	assert.Equal(t, "shared string helpers", got[0].Text)
	assert.Equal(t, 3, got[0].Line)
}

func TestExtractUnterminatedBlockAtEOF(t *testing.T) {
	p := NewParser(nil, "")
	got := p.Extract([]byte("/* GynTree: dangling\nstill inside"), ".go")
	require.Len(t, got, 1)
	assert.Equal(t, "dangling still inside", got[0].Text)
}

func TestExtractPythonDocstring(t *testing.T) {
	src := `"""
GynTree: main entry point of the application
"""
import os

# GynTree: trailing note
`
	p := NewParser(nil, "")
	got := p.Extract([]byte(src), ".py")
	require.Len(t, got, 2)
	assert.Equal(t, "main entry point of the application", got[0].Text)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, "trailing note", got[1].Text)
	assert.Equal(t, 6, got[1].Line)
}

func TestExtractHTMLCommentOnOneLine(t *testing.T) {
	p := NewParser(nil, "")
	got := p.Extract([]byte("<!-- GynTree: landing page -->\n<html></html>\n"), ".html")
	require.Len(t, got, 1)
	assert.Equal(t, "landing page", got[0].Text)
}

func TestExtractMultipleCommentsInFileOrder(t *testing.T) {
	src := `// GynTree: first
code()
/* GynTree: second */
// GynTree: third
`
	p := NewParser(nil, "")
	got := p.Extract([]byte(src), ".js")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{got[0].Text, got[1].Text, got[2].Text})
}

func TestExtractTwoTagsInsideOneBlock(t *testing.T) {
	src := `/*
GynTree: alpha
GynTree: beta
*/`
	p := NewParser(nil, "")
	got := p.Extract([]byte(src), ".go")
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Text)
	assert.Equal(t, "beta", got[1].Text)
}

func TestExtractTagIsCaseSensitive(t *testing.T) {
	p := NewParser(nil, "")
	assert.Empty(t, p.Extract([]byte("// gyntree: nope\n"), ".go"))
}

func TestExtractUnsupportedExtension(t *testing.T) {
	p := NewParser(nil, "")
	assert.Empty(t, p.Extract([]byte("// GynTree: hidden\n"), ".xyz"))
}

func TestExtractCustomTag(t *testing.T) {
	p := NewParser(nil, "Purpose:")
	got := p.Extract([]byte("# Purpose: build script\n"), ".sh")
	require.Len(t, got, 1)
	assert.Equal(t, "build script", got[0].Text)
}

func TestExtractLargeGarbageInputDoesNotPanic(t *testing.T) {
	// Stray block markers and binary-ish noise must never abort a scan.
	junk := strings.Repeat("*/ /* \x00\xff ", 5000)
	p := NewParser(nil, "")
	assert.NotPanics(t, func() { p.Extract([]byte(junk), ".go") })
}

func TestRegistryRejectsDuplicateExtension(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Syntax{Name: "a", Extensions: []string{".zz"}, Line: "//"}))
	assert.Error(t, r.Register(Syntax{Name: "b", Extensions: []string{".ZZ"}, Line: "#"}))
}

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	r := DefaultRegistry()
	s, ok := r.Lookup(".PY")
	require.True(t, ok)
	assert.Equal(t, "python", s.Name)

	_, ok = r.Lookup("go")
	assert.True(t, ok, "lookup should tolerate a missing leading dot")
}
