// Package command implements the kernelgen command line
package command

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/notargets/kernelgen/builder"
	"github.com/notargets/kernelgen/runner"
	"github.com/notargets/kernelgen/utils"
)

type cliFlags struct {
	numKernels  int
	numBuffers  int
	numCaptures int
	dimensions  int
	loopNests   int
	scalarType  string
	mix         string
	templated   bool
	verbose     bool

	configFile string
	stdout     bool
	output     runner.OutputConfig
}

// NewCommand returns the kernelgen root command. Artifacts are written to
// fs.
func NewCommand(fs afero.Fs) *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "kernelgen",
		Short: "Generate SYCL kernels for compile-time benchmarking",
		Long: `kernelgen generates SYCL programs of various size and structure.

It writes a declarations file with one forward declaration per kernel and a
kernels file with buffer and capture declarations followed by one command
group submission per kernel. Both files are overwritten on every run.`,
		Example:      `kernelgen -k 100 -b 8 -l 2 -m sin:3,mad:10 -T`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, fs, flags)
		},
	}

	bindFlags(cmd.Flags(), flags)
	return cmd
}

func bindFlags(fl *pflag.FlagSet, flags *cliFlags) {
	defaults := builder.DefaultOptions()
	out := runner.DefaultOutputConfig()

	fl.IntVarP(&flags.numKernels, "num_kernels", "k", defaults.NumKernels, "Create NUM kernels")
	fl.IntVarP(&flags.numBuffers, "num_buffers", "b", defaults.NumBuffers,
		fmt.Sprintf("Create NUM buffers (clamped to %d..%d)", builder.MinBuffers, builder.MaxBuffers))
	fl.IntVarP(&flags.numCaptures, "num_captures", "c", defaults.NumCaptures, "Use NUM captures")
	fl.IntVarP(&flags.dimensions, "dimensions", "d", defaults.Dimensions,
		fmt.Sprintf("Select dimensionality (clamped to %d..%d)", builder.MinDimensions, builder.MaxDimensions))
	fl.IntVarP(&flags.loopNests, "loopnests", "l", defaults.LoopNests, "Create NUM loop nests")
	fl.StringVarP(&flags.scalarType, "type", "t", defaults.Type,
		fmt.Sprintf("Select data type (%s)", builder.ScalarTypeNames()))
	fl.StringVarP(&flags.mix, "mix", "m", defaults.Mix.String(), "Composition, e.g. sin:3,mad:10")
	fl.BoolVarP(&flags.templated, "templated", "T", false, "Generate templated kernels")
	fl.BoolVarP(&flags.verbose, "verbose", "v", false, "Run verbosely")

	fl.StringVar(&flags.configFile, "config", "", "Read options from a YAML file; flags override it")
	fl.BoolVar(&flags.stdout, "stdout", false, "Print both artifacts instead of writing files")
	fl.StringVarP(&flags.output.Dir, "out-dir", "o", out.Dir, "Directory for the generated files")
	fl.StringVar(&flags.output.DeclarationsFile, "decl-file", out.DeclarationsFile, "Name of the declarations file")
	fl.StringVar(&flags.output.KernelsFile, "kernel-file", out.KernelsFile, "Name of the kernels file")
}

func run(cmd *cobra.Command, fs afero.Fs, flags *cliFlags) error {
	logger := utils.NewLogger(flags.verbose)
	defer func() { _ = logger.Sync() }()

	opts, err := resolveOptions(cmd.Flags(), fs, flags)
	if err != nil {
		return err
	}

	cfg, err := builder.NewConfig(opts)
	if err != nil {
		return err
	}

	kr, err := runner.NewRunner(fs, cfg, flags.output, logger)
	if err != nil {
		return err
	}

	if flags.stdout {
		_, err = kr.Preview(cmd.OutOrStdout())
		return err
	}
	_, err = kr.Run()
	return err
}

// resolveOptions layers defaults, the optional config file and the flags
// the user actually set, in that order
func resolveOptions(fl *pflag.FlagSet, fs afero.Fs, flags *cliFlags) (builder.Options, error) {
	opts := builder.DefaultOptions()

	if flags.configFile != "" {
		loaded, err := runner.LoadOptions(fs, flags.configFile, opts)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	if fl.Changed("num_kernels") {
		opts.NumKernels = flags.numKernels
	}
	if fl.Changed("num_buffers") {
		opts.NumBuffers = flags.numBuffers
	}
	if fl.Changed("num_captures") {
		opts.NumCaptures = flags.numCaptures
	}
	if fl.Changed("dimensions") {
		opts.Dimensions = flags.dimensions
	}
	if fl.Changed("loopnests") {
		opts.LoopNests = flags.loopNests
	}
	if fl.Changed("type") {
		opts.Type = flags.scalarType
	}
	if fl.Changed("templated") {
		opts.Templated = flags.templated
	}
	if fl.Changed("mix") {
		mix, err := builder.ParseMix(flags.mix)
		if err != nil {
			return opts, fmt.Errorf("invalid --mix: %w", err)
		}
		opts.Mix = mix
	}

	return opts, nil
}
