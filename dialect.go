package supercsv

import (
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// Dialect describes how records are laid out on a line. It is captured by value when a
// Reader, Writer, Parser or Formatter is built and cannot change underneath it.
type Dialect struct {
	// Delimiter separates fields. Default is ','.
	Delimiter rune
	// Enclosure quotes a field holding reserved characters. Default is '"'.
	Enclosure rune
	// Escaper neutralises the next enclosure, delimiter or escaper inside an enclosed field.
	// Default is '\\'. Zero disables escaping.
	Escaper rune
	// IgnoreEmpty skips records whose fields are all empty on read and drops them on write.
	IgnoreEmpty bool
	// Trim strips leading and trailing white space from every field.
	Trim bool
	// UseCRLF terminates written lines with \r\n instead of \n.
	UseCRLF bool
	// AlwaysQuote encloses every written field.
	AlwaysQuote bool
	// FieldsPerRecord, when positive, is the exact width required of records read without a header.
	FieldsPerRecord int
	// Charset names the byte encoding of the stream (for example "windows-1252").
	// Empty means bytes are passed through untouched.
	Charset string
}

// DefaultDialect returns the comma/double-quote/backslash dialect with all filters off.
func DefaultDialect() Dialect {
	return Dialect{
		Delimiter: ',',
		Enclosure: '"',
		Escaper:   '\\',
	}
}

// Validate reports whether the dialect can be used to parse and format records.
func (d Dialect) Validate() error {
	if d.Delimiter == 0 {
		return fmt.Errorf("%w: delimiter is required", ErrInvalidDialect)
	}
	if d.Enclosure == 0 {
		return fmt.Errorf("%w: enclosure is required", ErrInvalidDialect)
	}
	for _, c := range []struct {
		name string
		r    rune
	}{{"delimiter", d.Delimiter}, {"enclosure", d.Enclosure}, {"escaper", d.Escaper}} {
		if c.r == '\r' || c.r == '\n' || c.r == utf8.RuneError || !utf8.ValidRune(c.r) {
			return fmt.Errorf("%w: %s %q is not allowed", ErrInvalidDialect, c.name, c.r)
		}
	}
	if d.Delimiter == d.Enclosure {
		return fmt.Errorf("%w: delimiter and enclosure are both %q", ErrInvalidDialect, d.Delimiter)
	}
	if d.Delimiter == d.Escaper {
		return fmt.Errorf("%w: delimiter and escaper are both %q", ErrInvalidDialect, d.Delimiter)
	}
	if d.FieldsPerRecord < 0 {
		return fmt.Errorf("%w: negative fields per record", ErrInvalidDialect)
	}
	if _, err := lookupCharset(d.Charset); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDialect, err)
	}
	return nil
}

// terminator returns the line terminator written after every record.
func (d Dialect) terminator() string {
	if d.UseCRLF {
		return "\r\n"
	}
	return "\n"
}

type settings struct {
	dialect Dialect
	logger  *slog.Logger
}

// Option configures a Reader or Writer at construction.
type Option func(*settings)

func newSettings(opts []Option) (settings, error) {
	s := settings{dialect: DefaultDialect()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if err := s.dialect.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// WithDialect replaces the whole dialect. Options listed after it still apply on top.
func WithDialect(d Dialect) Option {
	return func(s *settings) {
		s.dialect = d
	}
}

// WithDelimiter sets the field delimiter.
func WithDelimiter(delimiter rune) Option {
	return func(s *settings) {
		s.dialect.Delimiter = delimiter
	}
}

// WithEnclosure sets the enclosure (quote) character.
func WithEnclosure(enclosure rune) Option {
	return func(s *settings) {
		s.dialect.Enclosure = enclosure
	}
}

// WithEscaper sets the escape character. Zero disables escaping.
func WithEscaper(escaper rune) Option {
	return func(s *settings) {
		s.dialect.Escaper = escaper
	}
}

// WithIgnoreEmpty toggles skipping of records whose fields are all empty.
func WithIgnoreEmpty(v bool) Option {
	return func(s *settings) {
		s.dialect.IgnoreEmpty = v
	}
}

// WithTrim toggles trimming of every field value.
func WithTrim(v bool) Option {
	return func(s *settings) {
		s.dialect.Trim = v
	}
}

// WithCRLF toggles \r\n line terminators on write.
func WithCRLF(v bool) Option {
	return func(s *settings) {
		s.dialect.UseCRLF = v
	}
}

// WithAlwaysQuote toggles enclosing of every written field.
func WithAlwaysQuote(v bool) Option {
	return func(s *settings) {
		s.dialect.AlwaysQuote = v
	}
}

// WithFieldsPerRecord requires unbound records to have exactly n fields.
func WithFieldsPerRecord(n int) Option {
	return func(s *settings) {
		s.dialect.FieldsPerRecord = n
	}
}

// WithCharset sets the stream charset used by OpenReader and CreateWriter.
func WithCharset(name string) Option {
	return func(s *settings) {
		s.dialect.Charset = name
	}
}

// WithLogger sets the logger used for debug traces. Logging is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}
