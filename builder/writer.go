package builder

import "strings"

// DefaultIndent is one nesting level in the kernel artifact
const DefaultIndent = "  "

// LineWriter accumulates artifact lines, indenting each by the running
// brace depth
type LineWriter struct {
	indent string
	depth  int
	lines  []string
}

// NewLineWriter creates a writer at depth zero
func NewLineWriter(indent string) *LineWriter {
	return &LineWriter{indent: indent}
}

// Write appends line. A line that closes more braces than it opens is
// outdented before it is written; one that opens more indents the lines
// after it.
func (w *LineWriter) Write(line string) {
	net := strings.Count(line, "{") - strings.Count(line, "}")
	if net < 0 {
		w.depth += net
		if w.depth < 0 {
			w.depth = 0
		}
	}

	if line == "" {
		w.lines = append(w.lines, "")
	} else {
		w.lines = append(w.lines, strings.Repeat(w.indent, w.depth)+line)
	}

	if net > 0 {
		w.depth += net
	}
}

// Blank appends an empty separator line
func (w *LineWriter) Blank() {
	w.lines = append(w.lines, "")
}

// Depth returns the current nesting depth
func (w *LineWriter) Depth() int {
	return w.depth
}

// Len returns the number of lines written
func (w *LineWriter) Len() int {
	return len(w.lines)
}

// Lines returns a copy of everything written so far
func (w *LineWriter) Lines() []string {
	result := make([]string, len(w.lines))
	copy(result, w.lines)
	return result
}
