package latex

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/itohio/numsimcas/pkg/core/options"
)

// defaultFontMacro is the font macro used for any rank absent from the
// configuration's table.
const defaultFontMacro = `\boldsymbol`

// Config is the LaTeX sink's font configuration: an unordered mapping
// from tensor rank to the LaTeX macro wrapping that rank's symbol,
// loadable from YAML the way the robot's device configs are.
type Config struct {
	Fonts   map[int]string `yaml:"fonts"`
	Default string         `yaml:"default"`
}

// DefaultConfig returns the documented default table: rank 4 renders
// under \mathbb, every other rank falls back to \boldsymbol.
func DefaultConfig() Config {
	return Config{
		Fonts:   map[int]string{4: `\mathbb`},
		Default: defaultFontMacro,
	}
}

// NewConfig builds a Config starting from DefaultConfig and applying
// opts, using the same functional-options discipline as
// pkg/core/plugin (pkg/core/options.Option / Apply).
func NewConfig(opts ...options.Option) Config {
	cfg := DefaultConfig()
	options.Apply(&cfg, opts...)
	return cfg
}

// WithFont overrides the font macro used for a given tensor rank.
func WithFont(rank int, macro string) options.Option {
	return func(o interface{}) {
		cfg, ok := o.(*Config)
		if !ok {
			return
		}
		if cfg.Fonts == nil {
			cfg.Fonts = map[int]string{}
		}
		cfg.Fonts[rank] = macro
	}
}

// WithDefaultFont overrides the fallback macro used for a rank with no
// explicit entry.
func WithDefaultFont(macro string) options.Option {
	return func(o interface{}) {
		if cfg, ok := o.(*Config); ok {
			cfg.Default = macro
		}
	}
}

// FontFor returns the macro configured for rank, or the configured
// default when rank has no explicit entry.
func (c Config) FontFor(rank int) string {
	if c.Fonts != nil {
		if m, ok := c.Fonts[rank]; ok {
			return m
		}
	}
	if c.Default == "" {
		return defaultFontMacro
	}
	return c.Default
}

// LoadConfig decodes a Config from YAML, filling in the documented
// default for any field the document leaves blank.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Default == "" {
		cfg.Default = defaultFontMacro
	}
	return cfg, nil
}

// Save encodes cfg as YAML to w.
func (c Config) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(c)
}
