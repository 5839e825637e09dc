package builder

import "fmt"

// Template parameter names of a templated kernel type. The second
// parameter carries the kernel's dimensionality.
const (
	TemplateTypeParam = "_TT"
	TemplateDimParam  = "_TN"
)

// GenerateKernelDeclaration generates the forward declaration of one
// kernel type
func GenerateKernelDeclaration(cfg *GenerationConfig, kernelName string) string {
	if cfg.Templated() {
		return fmt.Sprintf("template <typename %s, int %s> class %s;",
			TemplateTypeParam, TemplateDimParam, kernelName)
	}
	return fmt.Sprintf("class %s;", kernelName)
}

// GenerateDeclarations generates the declarations artifact, one line per
// kernel in order
func GenerateDeclarations(cfg *GenerationConfig, kernelNames []string) []string {
	lines := make([]string, 0, len(kernelNames))
	for _, kn := range kernelNames {
		lines = append(lines, GenerateKernelDeclaration(cfg, kn))
	}
	return lines
}

// KernelTypeName returns the name used at the parallel_for site. For
// templated kernels the arguments match the declaration's parameters.
func KernelTypeName(cfg *GenerationConfig, kernelName string) string {
	if cfg.Templated() {
		return fmt.Sprintf("%s<%s, %d>", kernelName, cfg.ScalarType(), cfg.Dimensions())
	}
	return kernelName
}
