package comment

import (
	"strings"
)

// DefaultTag is the marker a comment line must carry to be treated as a
// purpose comment.
const DefaultTag = "GynTree:"

// PurposeComment is a human-authored purpose annotation extracted from a
// source file. Path is filled in by the traversal that read the file.
type PurposeComment struct {
	Text string
	Path string
	Line int
}

// Parser extracts purpose comments from file content. It holds no per-file
// state and is safe for concurrent use.
type Parser struct {
	registry *Registry
	tag      string
}

// NewParser builds a parser over the given registry and purpose tag. A nil
// registry falls back to DefaultRegistry, an empty tag to DefaultTag.
func NewParser(registry *Registry, tag string) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if tag == "" {
		tag = DefaultTag
	}
	return &Parser{registry: registry, tag: tag}
}

// Tag returns the purpose tag the parser scans for.
func (p *Parser) Tag() string { return p.tag }

// Extract returns all purpose comments found in content, in file order.
// Unsupported extensions yield an empty result, not an error. The tag test
// is case-sensitive. Multi-line blocks are non-nested: the first end marker
// after a start marker closes it, and a block left unterminated at EOF is
// scanned as if it extended to the end of the file.
func (p *Parser) Extract(content []byte, ext string) []PurposeComment {
	syn, ok := p.registry.Lookup(ext)
	if !ok {
		return nil
	}

	s := scan{parser: p, syntax: syn}
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		s.line(line, i+1)
	}
	// Unterminated block: emit whatever was collected so far.
	s.flush()
	return s.out
}

// scan is the per-extraction state machine.
type scan struct {
	parser *Parser
	syntax Syntax
	out    []PurposeComment

	inBlock    bool
	collecting bool
	parts      []string
	startLine  int
}

// line consumes one source line, tracking block state across calls.
func (s *scan) line(text string, lineNo int) {
	rest := text
	for {
		if s.inBlock {
			end := -1
			if s.syntax.BlockEnd != "" {
				end = strings.Index(rest, s.syntax.BlockEnd)
			}
			seg := rest
			if end >= 0 {
				seg = rest[:end]
			}
			s.blockSegment(seg, lineNo)
			if end < 0 {
				return
			}
			s.inBlock = false
			s.flush()
			rest = rest[end+len(s.syntax.BlockEnd):]
			continue
		}

		trimmed := strings.TrimSpace(rest)
		if s.syntax.Line != "" && strings.HasPrefix(trimmed, s.syntax.Line) {
			body := strings.TrimSpace(strings.TrimPrefix(trimmed, s.syntax.Line))
			if strings.HasPrefix(body, s.parser.tag) {
				s.emit(strings.TrimSpace(body[len(s.parser.tag):]), lineNo)
			}
			return
		}
		if s.syntax.BlockStart != "" {
			if idx := strings.Index(rest, s.syntax.BlockStart); idx >= 0 {
				s.inBlock = true
				rest = rest[idx+len(s.syntax.BlockStart):]
				continue
			}
		}
		return
	}
}

// blockSegment consumes the part of a line that lies inside a block
// comment. The tag may appear on any line of the block, not only the
// first; a second tag inside the same block starts a new comment.
func (s *scan) blockSegment(seg string, lineNo int) {
	if idx := strings.Index(seg, s.parser.tag); idx >= 0 {
		s.flush()
		s.collecting = true
		s.startLine = lineNo
		s.parts = append(s.parts, strings.TrimSpace(seg[idx+len(s.parser.tag):]))
		return
	}
	if !s.collecting {
		return
	}
	// Strip leading decoration ("* " gutters in C-style blocks).
	cleaned := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(seg), "*"))
	if cleaned != "" {
		s.parts = append(s.parts, cleaned)
	}
}

// flush finalizes a collected block comment. Captured lines are joined
// with a single space.
func (s *scan) flush() {
	if !s.collecting {
		return
	}
	text := strings.TrimSpace(strings.Join(s.parts, " "))
	s.collecting = false
	s.parts = nil
	if text != "" {
		s.out = append(s.out, PurposeComment{Text: text, Line: s.startLine})
	}
}

func (s *scan) emit(text string, lineNo int) {
	if text == "" {
		return
	}
	s.out = append(s.out, PurposeComment{Text: text, Line: lineNo})
}
