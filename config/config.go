// Package config loads a supercsv.Dialect from a configuration file and the environment.
//
// Keys (file or environment, the latter prefixed with SUPERCSV_ and upper-cased):
//
//	delimiter, enclosure, escaper   single characters; escaper may be empty to disable escaping
//	ignore_empty, trim              booleans
//	use_crlf, always_quote          booleans
//	fields_per_record               integer
//	charset                         encoding name, empty for pass-through
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/oleg578/supercsv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SUPERCSV"

// Options controls where Load looks for settings.
type Options struct {
	// File is a config file in any format viper understands. Empty means environment only.
	File string
	// EnvFiles are .env files loaded into the process environment first. Missing files are skipped.
	EnvFiles []string
	// Fs is the filesystem File is read from. Defaults to the OS filesystem.
	Fs afero.Fs
}

// file mirrors the keys of a dialect config file.
type file struct {
	Delimiter       string `yaml:"delimiter" mapstructure:"delimiter"`
	Enclosure       string `yaml:"enclosure" mapstructure:"enclosure"`
	Escaper         string `yaml:"escaper" mapstructure:"escaper"`
	IgnoreEmpty     bool   `yaml:"ignore_empty" mapstructure:"ignore_empty"`
	Trim            bool   `yaml:"trim" mapstructure:"trim"`
	UseCRLF         bool   `yaml:"use_crlf" mapstructure:"use_crlf"`
	AlwaysQuote     bool   `yaml:"always_quote" mapstructure:"always_quote"`
	FieldsPerRecord int    `yaml:"fields_per_record" mapstructure:"fields_per_record"`
	Charset         string `yaml:"charset" mapstructure:"charset"`
}

// Load builds a Dialect from defaults, then opts.File, then the environment, and validates it.
func Load(opts Options) (supercsv.Dialect, error) {
	for _, path := range opts.EnvFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return supercsv.Dialect{}, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	v := viper.New()
	if opts.Fs != nil {
		v.SetFs(opts.Fs)
	}
	def := supercsv.DefaultDialect()
	v.SetDefault("delimiter", string(def.Delimiter))
	v.SetDefault("enclosure", string(def.Enclosure))
	v.SetDefault("escaper", string(def.Escaper))
	v.SetDefault("ignore_empty", def.IgnoreEmpty)
	v.SetDefault("trim", def.Trim)
	v.SetDefault("use_crlf", def.UseCRLF)
	v.SetDefault("always_quote", def.AlwaysQuote)
	v.SetDefault("fields_per_record", def.FieldsPerRecord)
	v.SetDefault("charset", def.Charset)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return supercsv.Dialect{}, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	}

	var f file
	if err := v.Unmarshal(&f); err != nil {
		return supercsv.Dialect{}, fmt.Errorf("decode config: %w", err)
	}
	return f.dialect()
}

// Write encodes d as YAML using the keys Load reads.
func Write(w io.Writer, d supercsv.Dialect) error {
	f := file{
		Delimiter:       runeString(d.Delimiter),
		Enclosure:       runeString(d.Enclosure),
		Escaper:         runeString(d.Escaper),
		IgnoreEmpty:     d.IgnoreEmpty,
		Trim:            d.Trim,
		UseCRLF:         d.UseCRLF,
		AlwaysQuote:     d.AlwaysQuote,
		FieldsPerRecord: d.FieldsPerRecord,
		Charset:         d.Charset,
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func (f file) dialect() (supercsv.Dialect, error) {
	d := supercsv.Dialect{
		IgnoreEmpty:     f.IgnoreEmpty,
		Trim:            f.Trim,
		UseCRLF:         f.UseCRLF,
		AlwaysQuote:     f.AlwaysQuote,
		FieldsPerRecord: f.FieldsPerRecord,
		Charset:         f.Charset,
	}
	var err error
	if d.Delimiter, err = char("delimiter", f.Delimiter, false); err != nil {
		return supercsv.Dialect{}, err
	}
	if d.Enclosure, err = char("enclosure", f.Enclosure, false); err != nil {
		return supercsv.Dialect{}, err
	}
	if d.Escaper, err = char("escaper", f.Escaper, true); err != nil {
		return supercsv.Dialect{}, err
	}
	if err := d.Validate(); err != nil {
		return supercsv.Dialect{}, err
	}
	return d, nil
}

// char decodes a single-character setting. Common escape spellings such as "\t" are accepted.
func char(key, s string, optional bool) (rune, error) {
	switch s {
	case `\t`, "tab":
		return '\t', nil
	case "":
		if optional {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %s is required", supercsv.ErrInvalidDialect, key)
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: %s must be a single character, got %q", supercsv.ErrInvalidDialect, key, s)
	}
	return r, nil
}

func runeString(r rune) string {
	switch r {
	case 0:
		return ""
	case '\t':
		return `\t`
	}
	return string(r)
}
