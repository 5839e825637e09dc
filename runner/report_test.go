package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/kernelgen/builder"
)

func TestShapeReport(t *testing.T) {
	cfg := newTestConfig(t, func(o *builder.Options) {
		o.NumKernels = 2
		o.NumBuffers = 3
		o.LoopNests = 1
		o.Mix = builder.Mix{builder.Op("add").Times(2)}
	})
	kb, err := builder.NewBuilder(cfg)
	require.NoError(t, err)

	report := NewShapeReport(kb.Generate().Shapes)

	// 7 draws per kernel over 3 buffers: 3, 2, 2 each, so 6, 4, 4 in total
	assert.Equal(t, 2, report.Kernels)
	assert.Equal(t, 2, report.Instructions)
	assert.Equal(t, 14, report.OperandRefs)
	assert.Equal(t, 4.0, report.BufferRefMin)
	assert.Equal(t, 6.0, report.BufferRefMax)
	assert.InDelta(t, 14.0/3.0, report.BufferRefMean, 1e-12)
	assert.InDelta(t, 1.1547005383792515, report.BufferRefStdDev, 1e-12)
	assert.Equal(t, float64(report.TotalLines)/2, report.MeanLinesPerKernel)
	assert.Len(t, report.Fields(), 9)
}

func TestShapeReportSingleBuffer(t *testing.T) {
	report := NewShapeReport([]builder.KernelShape{{Name: "kernel_1", Lines: 10, OperandRefs: 4, BufferRefs: []int{4}}})
	assert.Equal(t, 4.0, report.BufferRefMean)
	assert.Equal(t, 0.0, report.BufferRefStdDev)
}

func TestShapeReportEmpty(t *testing.T) {
	report := NewShapeReport(nil)
	assert.Equal(t, ShapeReport{}, report)
}
