package builder

import (
	"fmt"

	"github.com/samber/lo"
)

// Identifier prefixes used in the generated source
const (
	KernelPrefix   = "kernel"
	BufferPrefix   = "buffer"
	CapturePrefix  = "capture"
	AccessorSuffix = "_acc"
)

// Buffer pairs a buffer identifier with its accessor identifier
type Buffer struct {
	Name     string
	Accessor string
}

// Names returns prefix_1 .. prefix_count
func Names(prefix string, count int) []string {
	if count <= 0 {
		return []string{}
	}
	return lo.Times(count, func(i int) string {
		return fmt.Sprintf("%s_%d", prefix, i+1)
	})
}

// BufferNames returns buffer_1 .. buffer_count with their accessors
func BufferNames(count int) []Buffer {
	return lo.Map(Names(BufferPrefix, count), func(name string, _ int) Buffer {
		return Buffer{Name: name, Accessor: name + AccessorSuffix}
	})
}

// NameSet holds every identifier derived from a configuration
type NameSet struct {
	Kernels  []string
	Buffers  []Buffer
	Captures []string
}

// NewNameSet derives the identifier sets for cfg
func NewNameSet(cfg *GenerationConfig) *NameSet {
	return &NameSet{
		Kernels:  Names(KernelPrefix, cfg.NumKernels()),
		Buffers:  BufferNames(cfg.NumBuffers()),
		Captures: Names(CapturePrefix, cfg.NumCaptures()),
	}
}

// Accessors returns the accessor identifiers in buffer order
func (ns *NameSet) Accessors() []string {
	return lo.Map(ns.Buffers, func(b Buffer, _ int) string {
		return b.Accessor
	})
}
