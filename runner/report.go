package runner

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/kernelgen/builder"
)

// ShapeReport summarizes how large the generated kernels are and how
// evenly operand references are spread over the buffers
type ShapeReport struct {
	Kernels            int
	TotalLines         int
	MeanLinesPerKernel float64
	Instructions       int // per kernel
	OperandRefs        int // all kernels
	BufferRefMean      float64
	BufferRefStdDev    float64
	BufferRefMin       float64
	BufferRefMax       float64
}

// NewShapeReport aggregates per-kernel shapes
func NewShapeReport(shapes []builder.KernelShape) ShapeReport {
	report := ShapeReport{Kernels: len(shapes)}
	if len(shapes) == 0 {
		return report
	}

	lines := make([]float64, len(shapes))
	refs := make([]float64, len(shapes[0].BufferRefs))
	for i, s := range shapes {
		lines[i] = float64(s.Lines)
		report.TotalLines += s.Lines
		report.OperandRefs += s.OperandRefs

		perBuffer := make([]float64, len(s.BufferRefs))
		for j, n := range s.BufferRefs {
			perBuffer[j] = float64(n)
		}
		floats.Add(refs, perBuffer)
	}
	report.Instructions = shapes[0].Instructions
	report.MeanLinesPerKernel = stat.Mean(lines, nil)

	if len(refs) > 0 {
		report.BufferRefMin = floats.Min(refs)
		report.BufferRefMax = floats.Max(refs)
		if len(refs) > 1 {
			report.BufferRefMean, report.BufferRefStdDev = stat.MeanStdDev(refs, nil)
		} else {
			report.BufferRefMean = refs[0]
		}
	}
	return report
}

// Fields renders the report as structured log fields
func (sr ShapeReport) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("kernels", sr.Kernels),
		zap.Int("total_lines", sr.TotalLines),
		zap.Float64("mean_lines_per_kernel", sr.MeanLinesPerKernel),
		zap.Int("instructions_per_kernel", sr.Instructions),
		zap.Int("operand_refs", sr.OperandRefs),
		zap.Float64("buffer_ref_mean", sr.BufferRefMean),
		zap.Float64("buffer_ref_stddev", sr.BufferRefStdDev),
		zap.Float64("buffer_ref_min", sr.BufferRefMin),
		zap.Float64("buffer_ref_max", sr.BufferRefMax),
	}
}
