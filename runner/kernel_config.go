package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/notargets/kernelgen/builder"
)

// Default artifact file names, included by the compile-time skeleton
const (
	DefaultDeclarationsFile = "kernel_declarations.inc"
	DefaultKernelsFile      = "kernels.inc"
)

// OutputConfig names where the two artifacts are written
type OutputConfig struct {
	Dir              string
	DeclarationsFile string
	KernelsFile      string
}

// DefaultOutputConfig writes both artifacts into the working directory
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Dir:              ".",
		DeclarationsFile: DefaultDeclarationsFile,
		KernelsFile:      DefaultKernelsFile,
	}
}

// DeclarationsPath returns the full path of the declarations artifact
func (oc OutputConfig) DeclarationsPath() string {
	return filepath.Join(oc.Dir, oc.DeclarationsFile)
}

// KernelsPath returns the full path of the kernel-bodies artifact
func (oc OutputConfig) KernelsPath() string {
	return filepath.Join(oc.Dir, oc.KernelsFile)
}

// Validate checks that both artifacts have distinct, non-empty names
func (oc OutputConfig) Validate() error {
	if oc.DeclarationsFile == "" || oc.KernelsFile == "" {
		return fmt.Errorf("%w: artifact file names must not be empty", builder.ErrConfiguration)
	}
	if oc.DeclarationsPath() == oc.KernelsPath() {
		return fmt.Errorf("%w: both artifacts would be written to %s",
			builder.ErrConfiguration, oc.KernelsPath())
	}
	return nil
}

// LoadOptions overlays the YAML file at path onto base. Keys not present
// in the file keep base's values; unknown keys are rejected.
func LoadOptions(fs afero.Fs, path string, base builder.Options) (builder.Options, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return base, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	opts := base
	if base.Operations != nil {
		// yaml decodes into an existing map in place
		opts.Operations = make(map[string]string, len(base.Operations))
		for op, tmpl := range base.Operations {
			opts.Operations[op] = tmpl
		}
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		if errors.Is(err, builder.ErrConfiguration) {
			return base, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return base, fmt.Errorf("%w: failed to parse config %s: %w", builder.ErrConfiguration, path, err)
	}
	return opts, nil
}
