package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/notargets/kernelgen/builder"
)

// Runner generates both artifacts for one configuration and writes them
// to a filesystem
type Runner struct {
	*builder.Builder
	Fs     afero.Fs
	Output OutputConfig
	Logger *zap.Logger
}

// NewRunner creates a Runner. A nil logger discards all logging.
func NewRunner(fs afero.Fs, cfg *builder.GenerationConfig, output OutputConfig, logger *zap.Logger) (*Runner, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem cannot be nil")
	}
	if err := output.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bld, err := builder.NewBuilder(cfg)
	if err != nil {
		return nil, err
	}

	return &Runner{
		Builder: bld,
		Fs:      fs,
		Output:  output,
		Logger:  logger,
	}, nil
}

// Run generates both artifacts in memory, then overwrites the two output
// files. Write failures are returned as-is, wrapped with the path.
func (kr *Runner) Run() (*builder.Artifacts, error) {
	kr.logConfig()

	artifacts := kr.Generate()
	kr.Logger.Debug("shape", NewShapeReport(artifacts.Shapes).Fields()...)

	if kr.Output.Dir != "" && kr.Output.Dir != "." {
		if err := kr.Fs.MkdirAll(kr.Output.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", kr.Output.Dir, err)
		}
	}

	if err := kr.writeArtifact(kr.Output.DeclarationsPath(), artifacts.DeclarationsText(), len(artifacts.Declarations)); err != nil {
		return nil, err
	}
	if err := kr.writeArtifact(kr.Output.KernelsPath(), artifacts.KernelsText(), len(artifacts.Kernels)); err != nil {
		return nil, err
	}

	return artifacts, nil
}

// Preview writes both artifacts to w instead of the filesystem
func (kr *Runner) Preview(w io.Writer) (*builder.Artifacts, error) {
	kr.logConfig()

	artifacts := kr.Generate()
	kr.Logger.Debug("shape", NewShapeReport(artifacts.Shapes).Fields()...)

	if _, err := fmt.Fprintf(w, "// %s\n%s\n// %s\n%s", kr.Output.DeclarationsFile, artifacts.DeclarationsText(),
		kr.Output.KernelsFile, artifacts.KernelsText()); err != nil {
		return nil, fmt.Errorf("failed to write preview: %w", err)
	}
	return artifacts, nil
}

func (kr *Runner) writeArtifact(path, content string, lines int) error {
	if err := afero.WriteFile(kr.Fs, path, []byte(content), os.FileMode(0o644)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	kr.Logger.Info("wrote artifact", zap.String("path", path), zap.Int("lines", lines))
	return nil
}

func (kr *Runner) logConfig() {
	cfg := kr.Config
	kr.Logger.Debug("configuration",
		zap.Int("num_kernels", cfg.NumKernels()),
		zap.Int("num_buffers", cfg.NumBuffers()),
		zap.Int("num_captures", cfg.NumCaptures()),
		zap.Int("dimensions", cfg.Dimensions()),
		zap.Int("loopnests", cfg.LoopNests()),
		zap.Stringer("type", cfg.ScalarType()),
		zap.Stringer("mix", cfg.Mix()),
		zap.Bool("templated", cfg.Templated()),
	)
	for _, c := range cfg.Clamped() {
		kr.Logger.Debug("clamped option",
			zap.String("option", c.Field),
			zap.Int("requested", c.Requested),
			zap.Int("applied", c.Applied),
		)
	}
}
