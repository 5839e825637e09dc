package builder

// OperandRotator cycles through a kernel's accessors, one step per
// operand reference. A fresh rotator is created for every kernel.
type OperandRotator struct {
	accessors []string
	index     int
	calls     int
	hits      []int
}

// NewOperandRotator creates a rotator positioned at the first accessor
func NewOperandRotator(accessors []string) *OperandRotator {
	if len(accessors) == 0 {
		panic("rotator needs at least one accessor")
	}
	acc := make([]string, len(accessors))
	copy(acc, accessors)
	return &OperandRotator{accessors: acc, hits: make([]int, len(acc))}
}

// Next returns the accessor at the current position and advances by one,
// wrapping at the end
func (r *OperandRotator) Next() string {
	acc := r.accessors[r.index]
	r.hits[r.index]++
	r.index = (r.index + 1) % len(r.accessors)
	r.calls++
	return acc
}

// Index is the position the next call will return
func (r *OperandRotator) Index() int {
	return r.index
}

// Calls counts how many operands have been drawn
func (r *OperandRotator) Calls() int {
	return r.calls
}

// Hits returns how often each accessor has been drawn, in accessor order
func (r *OperandRotator) Hits() []int {
	result := make([]int, len(r.hits))
	copy(result, r.hits)
	return result
}
