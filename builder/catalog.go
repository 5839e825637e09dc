package builder

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// Placeholder names an operand slot inside an operation template
type Placeholder string

const (
	Out Placeholder = "OUT"
	In1 Placeholder = "IN1"
	In2 Placeholder = "IN2"
)

// placeholderOrder is also the order in which slots draw from the rotator
var placeholderOrder = []Placeholder{Out, In1, In2}

var defaultOperations = map[string]string{
	"sin":  "OUT = cl::sycl::sin(IN1);",
	"cos":  "OUT = cl::sycl::cos(IN1);",
	"sqrt": "OUT = cl::sycl::sqrt(IN1);",
	"add":  "OUT = IN1 + IN2;",
	"mad":  "OUT = IN1 * IN2 + IN1;",
}

type segment struct {
	text string
	slot Placeholder // empty for literal text
}

// OperationTemplate is a parsed, immutable expression template
type OperationTemplate struct {
	Opcode string
	Text   string

	segments []segment
	slots    []Placeholder
}

// NewOperationTemplate parses text into literal and placeholder segments.
// The template must reference OUT and IN1; IN2 is optional.
func NewOperationTemplate(opcode, text string) (OperationTemplate, error) {
	if opcode == "" || strings.ContainsAny(opcode, ":, \t\n") {
		return OperationTemplate{}, fmt.Errorf("%w: invalid opcode %q", ErrConfiguration, opcode)
	}

	tmpl := OperationTemplate{Opcode: opcode, Text: text}
	seen := make(map[Placeholder]bool)

	var literal strings.Builder
	for i := 0; i < len(text); {
		slot, ok := placeholderAt(text, i)
		if !ok {
			literal.WriteByte(text[i])
			i++
			continue
		}
		if literal.Len() > 0 {
			tmpl.segments = append(tmpl.segments, segment{text: literal.String()})
			literal.Reset()
		}
		tmpl.segments = append(tmpl.segments, segment{slot: slot})
		seen[slot] = true
		i += len(slot)
	}
	if literal.Len() > 0 {
		tmpl.segments = append(tmpl.segments, segment{text: literal.String()})
	}

	for _, p := range placeholderOrder {
		if seen[p] {
			tmpl.slots = append(tmpl.slots, p)
		}
	}
	if !seen[Out] || !seen[In1] {
		return OperationTemplate{}, fmt.Errorf("%w: operation %q must reference %s and %s",
			ErrConfiguration, opcode, Out, In1)
	}
	return tmpl, nil
}

func placeholderAt(text string, i int) (Placeholder, bool) {
	for _, p := range placeholderOrder {
		if strings.HasPrefix(text[i:], string(p)) {
			return p, true
		}
	}
	return "", false
}

// Placeholders returns the distinct slots the template uses, in
// OUT, IN1, IN2 order
func (t OperationTemplate) Placeholders() []Placeholder {
	result := make([]Placeholder, len(t.slots))
	copy(result, t.slots)
	return result
}

// Expand renders the template with every occurrence of a placeholder
// replaced by its value. Slots missing from values are left as-is.
func (t OperationTemplate) Expand(values map[Placeholder]string) string {
	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.slot == "" {
			sb.WriteString(seg.text)
			continue
		}
		if v, ok := values[seg.slot]; ok {
			sb.WriteString(v)
		} else {
			sb.WriteString(string(seg.slot))
		}
	}
	return sb.String()
}

// Catalog maps opcodes to operation templates. A Catalog is never
// modified after construction.
type Catalog struct {
	templates map[string]OperationTemplate
}

// DefaultCatalog returns the built-in sin, cos, sqrt, add and mad operations
func DefaultCatalog() *Catalog {
	c, err := (&Catalog{}).With(defaultOperations)
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return c
}

// With returns a new catalog holding c's operations plus ops. An entry in
// ops replaces an existing opcode of the same name.
func (c *Catalog) With(ops map[string]string) (*Catalog, error) {
	next := &Catalog{templates: make(map[string]OperationTemplate, len(c.templates)+len(ops))}
	for op, tmpl := range c.templates {
		next.templates[op] = tmpl
	}

	// Sorted so aggregated errors come out in a stable order
	opcodes := make([]string, 0, len(ops))
	for op := range ops {
		opcodes = append(opcodes, op)
	}
	sort.Strings(opcodes)

	var errs error
	for _, op := range opcodes {
		tmpl, err := NewOperationTemplate(op, ops[op])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		next.templates[op] = tmpl
	}
	if errs != nil {
		return nil, errs
	}
	return next, nil
}

// Lookup returns the template for opcode
func (c *Catalog) Lookup(opcode string) (OperationTemplate, error) {
	tmpl, ok := c.templates[opcode]
	if !ok {
		return OperationTemplate{}, &UnknownOperationError{Opcode: opcode}
	}
	return tmpl, nil
}

// Opcodes returns the known opcodes, sorted
func (c *Catalog) Opcodes() []string {
	result := make([]string, 0, len(c.templates))
	for op := range c.templates {
		result = append(result, op)
	}
	sort.Strings(result)
	return result
}
