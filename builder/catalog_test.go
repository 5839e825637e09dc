package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []string{"add", "cos", "mad", "sin", "sqrt"}, c.Opcodes())

	tests := []struct {
		opcode string
		slots  []Placeholder
	}{
		{"sin", []Placeholder{Out, In1}},
		{"cos", []Placeholder{Out, In1}},
		{"sqrt", []Placeholder{Out, In1}},
		{"add", []Placeholder{Out, In1, In2}},
		{"mad", []Placeholder{Out, In1, In2}},
	}
	for _, tt := range tests {
		tmpl, err := c.Lookup(tt.opcode)
		require.NoError(t, err, tt.opcode)
		assert.Equal(t, tt.slots, tmpl.Placeholders(), tt.opcode)
	}
}

func TestCatalogLookupUnknown(t *testing.T) {
	_, err := DefaultCatalog().Lookup("tan")
	require.Error(t, err)

	var unknown *UnknownOperationError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "tan", unknown.Opcode)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestTemplateExpand(t *testing.T) {
	tmpl, err := DefaultCatalog().Lookup("mad")
	require.NoError(t, err)

	got := tmpl.Expand(map[Placeholder]string{Out: "a", In1: "b", In2: "c"})
	assert.Equal(t, "a = b * c + b;", got)

	// Expansion never mutates the template
	again := tmpl.Expand(map[Placeholder]string{Out: "x", In1: "y", In2: "z"})
	assert.Equal(t, "x = y * z + y;", again)
	assert.Equal(t, "OUT = IN1 * IN2 + IN1;", tmpl.Text)

	partial := tmpl.Expand(map[Placeholder]string{Out: "x"})
	assert.Equal(t, "x = IN1 * IN2 + IN1;", partial)
}

func TestNewOperationTemplate(t *testing.T) {
	t.Run("PlaceholderOrderIsFixed", func(t *testing.T) {
		tmpl, err := NewOperationTemplate("rev", "OUT = IN2 - IN1;")
		require.NoError(t, err)
		assert.Equal(t, []Placeholder{Out, In1, In2}, tmpl.Placeholders())
	})

	invalid := map[string][2]string{
		"NoOut":       {"x", "IN1;"},
		"NoIn1":       {"x", "OUT = 1;"},
		"EmptyOpcode": {"", "OUT = IN1;"},
		"ColonInName": {"a:b", "OUT = IN1;"},
		"SpaceInName": {"a b", "OUT = IN1;"},
		"CommaInName": {"a,b", "OUT = IN1;"},
	}
	for name, in := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := NewOperationTemplate(in[0], in[1])
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}

func TestCatalogWith(t *testing.T) {
	base := DefaultCatalog()

	extended, err := base.With(map[string]string{
		"sin": "OUT = sinpi(IN1);",
		"neg": "OUT = -IN1;",
	})
	require.NoError(t, err)

	tmpl, err := extended.Lookup("sin")
	require.NoError(t, err)
	assert.Equal(t, "OUT = sinpi(IN1);", tmpl.Text)

	tmpl, err = base.Lookup("sin")
	require.NoError(t, err)
	assert.Equal(t, "OUT = cl::sycl::sin(IN1);", tmpl.Text)

	_, err = base.With(map[string]string{"bad": "nothing", "worse": "OUT"})
	assert.Error(t, err)
}
