package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperandRotatorCycles(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		accessors := Names("acc", n)
		rot := NewOperandRotator(accessors)

		for i := 0; i < 5*n+3; i++ {
			assert.Equal(t, accessors[i%n], rot.Next(), "n=%d call=%d", n, i)
			assert.Less(t, rot.Index(), n)
		}
		assert.Equal(t, 5*n+3, rot.Calls())
	}
}

func TestOperandRotatorSingleBuffer(t *testing.T) {
	rot := NewOperandRotator([]string{"only"})
	for i := 0; i < 10; i++ {
		assert.Equal(t, "only", rot.Next())
		assert.Equal(t, 0, rot.Index())
	}
	assert.Equal(t, []int{10}, rot.Hits())
}

func TestOperandRotatorHits(t *testing.T) {
	rot := NewOperandRotator([]string{"a", "b", "c"})
	for i := 0; i < 7; i++ {
		rot.Next()
	}
	assert.Equal(t, []int{3, 2, 2}, rot.Hits())
}

func TestOperandRotatorOwnsAccessors(t *testing.T) {
	accessors := []string{"a", "b"}
	rot := NewOperandRotator(accessors)
	accessors[0] = "changed"
	assert.Equal(t, "a", rot.Next())
}

func TestOperandRotatorEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { NewOperandRotator(nil) })
}

func TestExpandInstructionDrawsPerDistinctPlaceholder(t *testing.T) {
	c := DefaultCatalog()
	rot := NewOperandRotator([]string{"a", "b", "c", "d"})

	mad, _ := c.Lookup("mad")
	assert.Equal(t, "a[gid] = b[gid] * c[gid] + b[gid];", ExpandInstruction(mad, rot))
	assert.Equal(t, 3, rot.Calls())

	sin, _ := c.Lookup("sin")
	assert.Equal(t, "d[gid] = cl::sycl::sin(a[gid]);", ExpandInstruction(sin, rot))
	assert.Equal(t, 5, rot.Calls())
}
