package builder

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Bounds applied by clamping rather than rejection
const (
	MinBuffers    = 1
	MaxBuffers    = 1024 * 16
	MinDimensions = 1
	MaxDimensions = 3
)

// MixEntry repeats one operation Count times
type MixEntry struct {
	Opcode string `yaml:"op"`
	Count  int    `yaml:"count"`
}

func (me MixEntry) String() string {
	return fmt.Sprintf("%s:%d", me.Opcode, me.Count)
}

// OpBuilder provides a fluent way to spell a mix entry: Op("sin").Times(3)
type OpBuilder struct {
	opcode string
}

// Op starts a mix entry for opcode
func Op(opcode string) OpBuilder {
	return OpBuilder{opcode: opcode}
}

// Times completes the entry with a repeat count
func (ob OpBuilder) Times(count int) MixEntry {
	return MixEntry{Opcode: ob.opcode, Count: count}
}

// Mix is the ordered instruction composition of every kernel body
type Mix []MixEntry

// String renders the mix in command-line form, e.g. "sin:3,mad:10"
func (m Mix) String() string {
	parts := make([]string, len(m))
	for i, e := range m {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

// Instructions returns the total number of instructions per kernel
func (m Mix) Instructions() int {
	total := 0
	for _, e := range m {
		total += e.Count
	}
	return total
}

// ParseMix parses "op:count,op:count,...". An empty string is an empty
// mix. Every malformed entry is reported, not only the first.
func ParseMix(s string) (Mix, error) {
	mix := Mix{}
	if strings.TrimSpace(s) == "" {
		return mix, nil
	}

	var errs error
	for _, raw := range strings.Split(s, ",") {
		entry, err := parseMixEntry(strings.TrimSpace(raw))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		mix = append(mix, entry)
	}
	if errs != nil {
		return nil, errs
	}
	return mix, nil
}

func parseMixEntry(raw string) (MixEntry, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return MixEntry{}, &MixEntryError{Entry: raw, Reason: "want op:count"}
	}
	opcode := strings.TrimSpace(parts[0])
	if opcode == "" {
		return MixEntry{}, &MixEntryError{Entry: raw, Reason: "missing opcode"}
	}
	count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return MixEntry{}, &MixEntryError{Entry: raw, Reason: "count is not an integer"}
	}
	if count < 0 {
		return MixEntry{}, &MixEntryError{Entry: raw, Reason: "count is negative"}
	}
	return MixEntry{Opcode: opcode, Count: count}, nil
}

// UnmarshalYAML accepts either the command-line string form or a
// sequence of {op, count} mappings
func (m *Mix) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		mix, err := ParseMix(value.Value)
		if err != nil {
			return err
		}
		*m = mix
		return nil
	}

	var entries []MixEntry
	if err := value.Decode(&entries); err != nil {
		return err
	}
	*m = entries
	return nil
}

// Options is the loosely typed, defaulted input to NewConfig. It is what
// flags and config files fill in.
type Options struct {
	NumKernels  int               `yaml:"num_kernels"`
	NumBuffers  int               `yaml:"num_buffers"`
	NumCaptures int               `yaml:"num_captures"`
	Dimensions  int               `yaml:"dimensions"`
	LoopNests   int               `yaml:"loopnests"`
	Type        string            `yaml:"type"`
	Mix         Mix               `yaml:"mix"`
	Templated   bool              `yaml:"templated"`
	Operations  map[string]string `yaml:"operations,omitempty"`
}

// DefaultOptions returns the generator defaults
func DefaultOptions() Options {
	return Options{
		NumKernels:  1,
		NumBuffers:  2,
		NumCaptures: 4,
		Dimensions:  1,
		LoopNests:   1,
		Type:        Float.String(),
		Mix:         Mix{Op("mad").Times(10)},
	}
}

// Clamp records a numeric option that was pulled into range
type Clamp struct {
	Field     string
	Requested int
	Applied   int
}

// GenerationConfig is the validated, immutable generator configuration.
// Use NewConfig to build one.
type GenerationConfig struct {
	numKernels  int
	numBuffers  int
	numCaptures int
	dimensions  int
	loopNests   int
	scalarType  ScalarType
	mix         Mix
	templated   bool

	catalog *Catalog
	clamped []Clamp
}

// NewConfig validates opts against the default catalog extended with
// opts.Operations. Every problem is reported at once; a nil error means
// generation cannot fail on configuration grounds.
func NewConfig(opts Options) (*GenerationConfig, error) {
	var errs error

	catalog, err := DefaultCatalog().With(opts.Operations)
	if err != nil {
		return nil, err
	}

	cfg := &GenerationConfig{
		numKernels:  opts.NumKernels,
		numCaptures: opts.NumCaptures,
		loopNests:   opts.LoopNests,
		templated:   opts.Templated,
		catalog:     catalog,
	}
	cfg.numBuffers = cfg.clamp("num_buffers", opts.NumBuffers, MinBuffers, MaxBuffers)
	cfg.dimensions = cfg.clamp("dimensions", opts.Dimensions, MinDimensions, MaxDimensions)

	if opts.NumKernels < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%w: num_kernels must be at least 1, got %d",
			ErrConfiguration, opts.NumKernels))
	}
	if opts.NumCaptures < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: num_captures must not be negative, got %d",
			ErrConfiguration, opts.NumCaptures))
	}
	if opts.LoopNests < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: loopnests must not be negative, got %d",
			ErrConfiguration, opts.LoopNests))
	}

	st, err := ParseScalarType(opts.Type)
	errs = multierr.Append(errs, err)
	cfg.scalarType = st

	// Opcodes are resolved here so that synthesis never meets an unknown one
	cfg.mix = make(Mix, 0, len(opts.Mix))
	for _, e := range opts.Mix {
		if e.Count < 0 {
			errs = multierr.Append(errs, &MixEntryError{Entry: e.String(), Reason: "count is negative"})
			continue
		}
		if _, err := catalog.Lookup(e.Opcode); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		cfg.mix = append(cfg.mix, e)
	}

	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}

func (cfg *GenerationConfig) clamp(field string, v, lo, hi int) int {
	applied := v
	if applied < lo {
		applied = lo
	}
	if applied > hi {
		applied = hi
	}
	if applied != v {
		cfg.clamped = append(cfg.clamped, Clamp{Field: field, Requested: v, Applied: applied})
	}
	return applied
}

func (cfg *GenerationConfig) NumKernels() int { return cfg.numKernels }
func (cfg *GenerationConfig) NumBuffers() int { return cfg.numBuffers }
func (cfg *GenerationConfig) NumCaptures() int { return cfg.numCaptures }
func (cfg *GenerationConfig) Dimensions() int { return cfg.dimensions }
func (cfg *GenerationConfig) LoopNests() int { return cfg.loopNests }
func (cfg *GenerationConfig) ScalarType() ScalarType { return cfg.scalarType }
func (cfg *GenerationConfig) Templated() bool { return cfg.templated }
func (cfg *GenerationConfig) Catalog() *Catalog { return cfg.catalog }

// Mix returns a copy of the instruction mix
func (cfg *GenerationConfig) Mix() Mix {
	result := make(Mix, len(cfg.mix))
	copy(result, cfg.mix)
	return result
}

// Clamped lists the options that were pulled into range
func (cfg *GenerationConfig) Clamped() []Clamp {
	result := make([]Clamp, len(cfg.clamped))
	copy(result, cfg.clamped)
	return result
}
