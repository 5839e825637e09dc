package builder

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	// RuntimeSize is the host-side size variable every range is bound by
	RuntimeSize = "rt_size"
	// GlobalID is the work-item index inside a kernel body
	GlobalID = "gid"
)

// Artifacts holds the two generated outputs as ordered lines
type Artifacts struct {
	Declarations []string
	Kernels      []string
	Shapes       []KernelShape
}

// DeclarationsText returns the declarations artifact as file content
func (a *Artifacts) DeclarationsText() string {
	return joinLines(a.Declarations)
}

// KernelsText returns the kernel-bodies artifact as file content
func (a *Artifacts) KernelsText() string {
	return joinLines(a.Kernels)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// KernelShape describes the size of one synthesized kernel
type KernelShape struct {
	Name         string
	Lines        int
	LoopNests    int
	Instructions int
	OperandRefs  int
	BufferRefs   []int // rotated references per buffer, in buffer order
}

type resolvedEntry struct {
	tmpl  OperationTemplate
	count int
}

// Builder synthesizes kernel source for one configuration
type Builder struct {
	Config *GenerationConfig
	Names  *NameSet

	instructions []resolvedEntry
	ndrange      string
}

// NewBuilder resolves every mix entry against the configuration's catalog
func NewBuilder(cfg *GenerationConfig) (*Builder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", ErrConfiguration)
	}

	kb := &Builder{
		Config:  cfg,
		Names:   NewNameSet(cfg),
		ndrange: strings.Join(lo.Times(cfg.Dimensions(), func(int) string { return RuntimeSize }), ","),
	}

	for _, e := range cfg.Mix() {
		tmpl, err := cfg.Catalog().Lookup(e.Opcode)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve mix entry %s: %w", e, err)
		}
		kb.instructions = append(kb.instructions, resolvedEntry{tmpl: tmpl, count: e.Count})
	}

	return kb, nil
}

// Generate produces both artifacts
func (kb *Builder) Generate() *Artifacts {
	artifacts := &Artifacts{
		Declarations: GenerateDeclarations(kb.Config, kb.Names.Kernels),
	}

	w := NewLineWriter(DefaultIndent)
	kb.GeneratePreamble(w)
	for _, kn := range kb.Names.Kernels {
		artifacts.Shapes = append(artifacts.Shapes, kb.SynthesizeKernel(w, kn))
	}
	artifacts.Kernels = w.Lines()

	return artifacts
}

// GeneratePreamble writes the buffer and capture declarations that open
// the kernel-bodies artifact
func (kb *Builder) GeneratePreamble(w *LineWriter) {
	st := kb.Config.ScalarType()
	dims := kb.Config.Dimensions()

	for _, b := range kb.Names.Buffers {
		w.Write(fmt.Sprintf("s::buffer<%s, %d> %s{s::range<%d>(%s)};", st, dims, b.Name, dims, kb.ndrange))
	}
	w.Blank()

	for _, cn := range kb.Names.Captures {
		w.Write(fmt.Sprintf("%s %s{};", st, cn))
	}
	w.Blank()
}

// SynthesizeKernel writes one kernel submission block using a fresh
// rotator
func (kb *Builder) SynthesizeKernel(w *LineWriter, kernelName string) KernelShape {
	return kb.SynthesizeKernelWith(w, kernelName, NewOperandRotator(kb.Names.Accessors()))
}

// SynthesizeKernelWith writes one kernel submission block, drawing every
// loop bound and instruction operand from rot
func (kb *Builder) SynthesizeKernelWith(w *LineWriter, kernelName string, rot *OperandRotator) KernelShape {
	cfg := kb.Config
	st := cfg.ScalarType()
	dims := cfg.Dimensions()
	accessors := kb.Names.Accessors()
	first := accessors[0]
	start := w.Len()
	startCalls := rot.Calls()
	startHits := rot.Hits()

	// 1. Submission header
	w.Write("device_queue.submit([&](cl::sycl::handler& cgh) {")

	// 2. Accessor bindings, in declared order
	for _, b := range kb.Names.Buffers {
		w.Write(fmt.Sprintf("auto %s = %s.get_access<s::access::mode::read_write>(cgh);", b.Accessor, b.Name))
	}

	// 3. Iteration range
	w.Write(fmt.Sprintf("cl::sycl::range<%d> ndrange{%s};", dims, kb.ndrange))

	// 4. Parallel region
	w.Write(fmt.Sprintf("cgh.parallel_for<%s>(ndrange, [=](cl::sycl::id<%d> gid) {",
		KernelTypeName(cfg, kernelName), dims))

	// 5. and 6. Use every capture and every buffer once
	if len(kb.Names.Captures) > 0 {
		w.Write(fmt.Sprintf("%s += %s;", elementRef(first), strings.Join(kb.Names.Captures, " + ")))
	}
	w.Write(fmt.Sprintf("%s += %s;", elementRef(first),
		strings.Join(lo.Map(accessors, func(a string, _ int) string { return elementRef(a) }), " + ")))

	// 7. Loop nest, each level bounded by the next rotated buffer
	for i := 0; i < cfg.LoopNests(); i++ {
		w.Write(fmt.Sprintf("for(%s i%d = 0; i%d < %s; ++i%d) {", st, i, i, elementRef(rot.Next()), i))
	}

	// 8. Instruction mix
	instructions := 0
	for _, e := range kb.instructions {
		for n := 0; n < e.count; n++ {
			w.Write(ExpandInstruction(e.tmpl, rot))
			instructions++
		}
	}

	// 9. and 10. Close everything opened above
	for i := 0; i < cfg.LoopNests(); i++ {
		w.Write("}")
	}
	w.Write("}); // parallel_for")
	w.Write("}); // submit")
	w.Blank()
	w.Blank()

	hits := rot.Hits()
	for i := range hits {
		hits[i] -= startHits[i]
	}
	return KernelShape{
		Name:         kernelName,
		Lines:        w.Len() - start,
		LoopNests:    cfg.LoopNests(),
		Instructions: instructions,
		OperandRefs:  rot.Calls() - startCalls,
		BufferRefs:   hits,
	}
}

// ExpandInstruction renders one instruction. Each distinct placeholder
// draws one accessor from rot, in OUT, IN1, IN2 order; repeated
// occurrences of a placeholder share that accessor.
func ExpandInstruction(tmpl OperationTemplate, rot *OperandRotator) string {
	values := make(map[Placeholder]string, len(tmpl.slots))
	for _, slot := range tmpl.slots {
		values[slot] = elementRef(rot.Next())
	}
	return tmpl.Expand(values)
}

func elementRef(accessor string) string {
	return fmt.Sprintf("%s[%s]", accessor, GlobalID)
}
