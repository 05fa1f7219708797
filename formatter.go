package supercsv

import (
	"unicode/utf8"
)

// Formatter joins field values into a single output line.
//
// A field is enclosed when it holds the delimiter, the enclosure, CR or LF, or when AlwaysQuote
// is set. Inside an enclosed field an embedded enclosure is doubled and every escaper is prefixed
// with the escaper, so Parser reads the value back unchanged.
type Formatter struct {
	delimiter   rune
	enclosure   rune
	escaper     rune
	alwaysQuote bool
}

// NewFormatter creates a Formatter for d.
func NewFormatter(d Dialect) (*Formatter, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	escaper := d.Escaper
	if escaper == d.Enclosure {
		// Doubling already covers it.
		escaper = 0
	}
	return &Formatter{
		delimiter:   d.Delimiter,
		enclosure:   d.Enclosure,
		escaper:     escaper,
		alwaysQuote: d.AlwaysQuote,
	}, nil
}

// Format returns fields as one line without a terminator.
func (f *Formatter) Format(fields []string) string {
	return string(f.AppendFormat(nil, fields))
}

// AppendFormat appends the formatted line to dst and returns the extended buffer.
func (f *Formatter) AppendFormat(dst []byte, fields []string) []byte {
	if len(fields) == 1 && fields[0] == "" {
		// A bare empty line would read back as a blank line.
		dst = utf8.AppendRune(dst, f.enclosure)
		return utf8.AppendRune(dst, f.enclosure)
	}
	for i, field := range fields {
		if i > 0 {
			dst = utf8.AppendRune(dst, f.delimiter)
		}
		dst = f.appendField(dst, field)
	}
	return dst
}

func (f *Formatter) appendField(dst []byte, field string) []byte {
	if !f.alwaysQuote && !f.needsEnclosure(field) {
		return append(dst, field...)
	}

	dst = utf8.AppendRune(dst, f.enclosure)
	start := 0
	for i := 0; i < len(field); {
		r, size := utf8.DecodeRuneInString(field[i:])
		i += size
		if r != f.enclosure && (f.escaper == 0 || r != f.escaper) {
			continue
		}
		dst = append(dst, field[start:i]...)
		if r == f.enclosure {
			dst = utf8.AppendRune(dst, f.enclosure)
		} else {
			dst = utf8.AppendRune(dst, f.escaper)
		}
		start = i
	}
	dst = append(dst, field[start:]...)
	return utf8.AppendRune(dst, f.enclosure)
}

func (f *Formatter) needsEnclosure(field string) bool {
	for _, r := range field {
		switch r {
		case f.delimiter, f.enclosure, '\n', '\r':
			return true
		}
	}
	return false
}
