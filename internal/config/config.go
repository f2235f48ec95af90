// Package config resolves run settings from flags, environment variables,
// an optional config file and defaults, in that order of precedence.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"clinvartab/internal/errors"
	"clinvartab/internal/extract"
	"clinvartab/internal/sink"
)

// EnvPrefix prefixes every environment variable: CLINVARTAB_FORMAT, ...
const EnvPrefix = "CLINVARTAB"

// Configuration keys. Flag names are identical.
const (
	KeyConfig    = "config"
	KeyInput     = "input"
	KeyOutput    = "output"
	KeyFormat    = "format"
	KeyBuild     = "build"
	KeyHG19      = "hg19"
	KeyHG38      = "hg38"
	KeyVCFHeader = "vcf-header"
	KeyChrPrefix = "chr-prefix"
	KeyLimit     = "limit"
	KeyQuiet     = "quiet"
	KeyVerbose   = "verbose"
	KeyLogJSON   = "log-json"
)

// Config is the resolved, validated configuration of one run.
type Config struct {
	Input     string // "" or "-" for stdin
	Output    string // "" or "-" for stdout
	Format    sink.Format
	Build     extract.GenomeBuild
	VCFHeader string // template file replacing the default VCF header
	ChrPrefix bool
	Limit     int // 0 = all records
	Quiet     bool
	Verbose   int
	LogJSON   bool
}

// raw mirrors the keys as viper decodes them, before validation.
type raw struct {
	Input     string `mapstructure:"input"`
	Output    string `mapstructure:"output"`
	Format    string `mapstructure:"format"`
	Build     string `mapstructure:"build"`
	HG19      bool   `mapstructure:"hg19"`
	HG38      bool   `mapstructure:"hg38"`
	VCFHeader string `mapstructure:"vcf-header"`
	ChrPrefix bool   `mapstructure:"chr-prefix"`
	Limit     int    `mapstructure:"limit"`
	Quiet     bool   `mapstructure:"quiet"`
	Verbose   int    `mapstructure:"verbose"`
	LogJSON   bool   `mapstructure:"log-json"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyInput, "")
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyFormat, string(sink.FormatTSV))
	v.SetDefault(KeyBuild, "38")
	v.SetDefault(KeyHG19, false)
	v.SetDefault(KeyHG38, false)
	v.SetDefault(KeyVCFHeader, "")
	v.SetDefault(KeyChrPrefix, false)
	v.SetDefault(KeyLimit, 0)
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyVerbose, 0)
	v.SetDefault(KeyLogJSON, false)
}

// New returns a viper instance with defaults and environment binding.
// Callers bind command flags onto it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the config file named by the config key, if any, and returns
// the validated configuration. Every error it returns is a usage error.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, usage(errors.Wrapf(err, "read config file %s", path))
		}
	}

	var r raw
	if err := v.Unmarshal(&r); err != nil {
		return Config{}, usage(errors.Wrap(err, "decode configuration"))
	}
	return r.resolve()
}

func (r raw) resolve() (Config, error) {
	cfg := Config{
		Input:     r.Input,
		Output:    r.Output,
		VCFHeader: r.VCFHeader,
		ChrPrefix: r.ChrPrefix,
		Limit:     r.Limit,
		Quiet:     r.Quiet,
		Verbose:   r.Verbose,
		LogJSON:   r.LogJSON,
	}

	var err error
	switch {
	case r.HG19 && r.HG38:
		return Config{}, usage(errors.New("--hg19 and --hg38 are mutually exclusive"))
	case r.HG19:
		cfg.Build = extract.Build37
	case r.HG38:
		cfg.Build = extract.Build38
	default:
		if cfg.Build, err = extract.ParseGenomeBuild(r.Build); err != nil {
			return Config{}, usage(err)
		}
	}

	if cfg.Format, err = sink.ParseFormat(r.Format); err != nil {
		return Config{}, err
	}
	if cfg.Limit < 0 {
		return Config{}, usage(errors.Newf("--limit must be >= 0, got %d", cfg.Limit))
	}
	if cfg.Verbose < 0 {
		return Config{}, usage(errors.Newf("verbosity must be >= 0, got %d", cfg.Verbose))
	}
	if cfg.VCFHeader != "" && cfg.Format != sink.FormatVCF {
		return Config{}, errors.WithHint(
			usage(errors.New("--vcf-header only applies to VCF output")),
			"add --format vcf")
	}
	return cfg, nil
}

func usage(err error) error { return errors.Mark(err, errors.ErrUsage) }
