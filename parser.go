package supercsv

import (
	"strings"
	"unicode/utf8"
)

// Parser splits a single line of text into field values.
type Parser struct {
	delimiter rune
	enclosure rune
	escaper   rune
}

// NewParser creates a Parser for d.
func NewParser(d Dialect) (*Parser, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Parser{
		delimiter: d.Delimiter,
		enclosure: d.Enclosure,
		escaper:   d.Escaper,
	}, nil
}

// Parse splits line (without its terminator) into fields. An empty line carries no data and
// yields a nil slice, which is distinct from a record holding one empty field. A line that ends
// inside an enclosure yields a *ParseError wrapping ErrUnterminatedEnclosure together with the
// fields recovered so far.
func (p *Parser) Parse(line string) ([]string, error) {
	fields, openAt := p.split(line)
	if openAt > 0 {
		return fields, &ParseError{Line: 1, Column: openAt, Err: ErrUnterminatedEnclosure}
	}
	return fields, nil
}

// split scans text rune by rune. openAt is the 1-based byte column of an enclosure
// that is still open at the end of text, or zero.
func (p *Parser) split(text string) (fields []string, openAt int) {
	if text == "" {
		return nil, 0
	}

	var field strings.Builder
	quoted := false
	fieldStart := true

	for i := 0; i < len(text); {
		if !quoted && fieldStart {
			r, size := utf8.DecodeRuneInString(text[i:])
			if r == p.enclosure {
				quoted = true
				fieldStart = false
				openAt = i + 1
				i += size
				continue
			}
			// Fast path: an unquoted field runs up to the next delimiter.
			end := strings.IndexRune(text[i:], p.delimiter)
			if end < 0 {
				fields = append(fields, text[i:])
				return fields, 0
			}
			fields = append(fields, text[i:i+end])
			i += end + utf8.RuneLen(p.delimiter)
			if i == len(text) {
				// Trailing delimiter opens one last empty field.
				fields = append(fields, "")
				return fields, 0
			}
			continue
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		if !quoted {
			if r == p.delimiter {
				fields = append(fields, field.String())
				field.Reset()
				fieldStart = true
				i += size
				if i == len(text) {
					fields = append(fields, "")
					return fields, 0
				}
				continue
			}
			field.WriteString(text[i : i+size])
			i += size
			continue
		}

		next, nextSize := utf8.DecodeRuneInString(text[i+size:])
		switch {
		case r == p.enclosure && nextSize > 0 && next == p.enclosure:
			// Doubled enclosure stands for one literal enclosure.
			field.WriteRune(r)
			i += size + nextSize
		case r == p.enclosure && p.closes(text, i+size):
			// Blanks between the closing enclosure and the delimiter are kept.
			quoted = false
			openAt = 0
			i += size
			for i < len(text) && isBlank(text[i]) && rune(text[i]) != p.delimiter {
				field.WriteByte(text[i])
				i++
			}
		case r == p.enclosure && !p.closedLater(text, i+size):
			// Nothing further on can close the field, so this enclosure does and the
			// trailing text up to the delimiter joins the value.
			quoted = false
			openAt = 0
			i += size
		case r == p.escaper && p.escaper != 0 && nextSize > 0 &&
			(next == p.enclosure || next == p.delimiter || next == p.escaper):
			field.WriteRune(next)
			i += size + nextSize
		default:
			field.WriteString(text[i : i+size])
			i += size
		}
	}

	fields = append(fields, field.String())
	return fields, openAt
}

// closes reports whether an enclosure ending just before text[i] closes the field: only
// blanks may stand between it and the next delimiter or the end of text.
func (p *Parser) closes(text string, i int) bool {
	for i < len(text) && isBlank(text[i]) && rune(text[i]) != p.delimiter {
		i++
	}
	if i == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return r == p.delimiter
}

// closedLater reports whether an enclosure at or after text[i] would close the field.
// Doubled enclosures and escape pairs are skipped as split skips them.
func (p *Parser) closedLater(text string, i int) bool {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		next, nextSize := utf8.DecodeRuneInString(text[i+size:])
		switch {
		case r == p.enclosure && nextSize > 0 && next == p.enclosure:
			i += size + nextSize
		case r == p.enclosure && p.closes(text, i+size):
			return true
		case r == p.escaper && p.escaper != 0 && nextSize > 0 &&
			(next == p.enclosure || next == p.delimiter || next == p.escaper):
			i += size + nextSize
		default:
			i += size
		}
	}
	return false
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' }
