package command

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/kernelgen/builder"
	"github.com/notargets/kernelgen/runner"
)

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readFile(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, name)
	require.NoError(t, err)
	return string(data)
}

func TestCommandDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := execute(t, fs)
	require.NoError(t, err)

	assert.Equal(t, "class kernel_1;\n", readFile(t, fs, runner.DefaultDeclarationsFile))
	kernels := readFile(t, fs, runner.DefaultKernelsFile)
	assert.Equal(t, 2, strings.Count(kernels, "s::buffer<float, 1>"))
	assert.Equal(t, 4, strings.Count(kernels, "float capture_"))
	assert.Equal(t, 10, strings.Count(kernels, " * "))
}

func TestCommandShortFlags(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := execute(t, fs, "-k", "3", "-b", "4", "-c", "0", "-d", "2", "-l", "2",
		"-t", "double", "-m", "sin:2,add:1", "-T")
	require.NoError(t, err)

	decl := readFile(t, fs, runner.DefaultDeclarationsFile)
	assert.Equal(t, 3, strings.Count(decl, "template <typename _TT, int _TN> class kernel_"))

	kernels := readFile(t, fs, runner.DefaultKernelsFile)
	assert.Contains(t, kernels, "cgh.parallel_for<kernel_3<double, 2>>(")
	assert.Contains(t, kernels, "for(double i1 = 0;")
	assert.Equal(t, 6, strings.Count(kernels, "cl::sycl::sin("))
	assert.NotContains(t, kernels, "capture_")
}

func TestCommandClampsSilently(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := execute(t, fs, "--num_buffers", "0", "--dimensions", "9")
	require.NoError(t, err)

	kernels := readFile(t, fs, runner.DefaultKernelsFile)
	assert.Contains(t, kernels, "s::buffer<float, 3> buffer_1{s::range<3>(rt_size,rt_size,rt_size)};")
	assert.NotContains(t, kernels, "buffer_2")
}

func TestCommandConfigurationErrorsWriteNothing(t *testing.T) {
	cases := map[string][]string{
		"UnknownOpcode": {"-m", "sin:1,tan:2"},
		"MalformedMix":  {"-m", "sin"},
		"UnknownType":   {"-t", "half"},
		"NoKernels":     {"-k", "0"},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			_, err := execute(t, fs, args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, builder.ErrConfiguration), "%v", err)

			for _, f := range []string{runner.DefaultDeclarationsFile, runner.DefaultKernelsFile} {
				exists, _ := afero.Exists(fs, f)
				assert.False(t, exists, f)
			}
		})
	}
}

func TestCommandConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := "num_kernels: 4\nnum_buffers: 3\nmix: \"cos:1\"\n"
	require.NoError(t, afero.WriteFile(fs, "gen.yaml", []byte(doc), 0o644))

	_, err := execute(t, fs, "--config", "gen.yaml", "-k", "2")
	require.NoError(t, err)

	decl := readFile(t, fs, runner.DefaultDeclarationsFile)
	assert.Equal(t, "class kernel_1;\nclass kernel_2;\n", decl, "flags override the file")

	kernels := readFile(t, fs, runner.DefaultKernelsFile)
	assert.Contains(t, kernels, "buffer_3_acc")
	assert.Equal(t, 2, strings.Count(kernels, "cl::sycl::cos("))
}

func TestCommandOutputLocation(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := execute(t, fs, "-o", "build", "--decl-file", "d.inc", "--kernel-file", "k.inc")
	require.NoError(t, err)

	assert.Equal(t, "class kernel_1;\n", readFile(t, fs, "build/d.inc"))
	assert.Contains(t, readFile(t, fs, "build/k.inc"), "device_queue.submit(")
}

func TestCommandStdout(t *testing.T) {
	fs := afero.NewMemMapFs()
	out, err := execute(t, fs, "--stdout", "-m", "sqrt:1")
	require.NoError(t, err)

	assert.Contains(t, out, "class kernel_1;")
	assert.Contains(t, out, "cl::sycl::sqrt(")
	exists, _ := afero.Exists(fs, runner.DefaultKernelsFile)
	assert.False(t, exists)
}

func TestCommandHelp(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "-h")
	require.NoError(t, err)

	for _, flag := range []string{"--num_kernels", "--num_buffers", "--num_captures", "--dimensions",
		"--loopnests", "--type", "--mix", "--templated", "--verbose"} {
		assert.Contains(t, out, flag)
	}
	assert.Contains(t, out, "int,float,double")
}
