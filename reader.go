package supercsv

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
)

// State is the lifecycle position of a Reader.
type State int

const (
	// StateUnopened means no source is attached.
	StateUnopened State = iota
	// StateOpen means records may be read.
	StateOpen
	// StateExhausted means the source reported the end of the stream.
	StateExhausted
	// StateClosed means the source was released.
	StateClosed
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpen:
		return "open"
	case StateExhausted:
		return "exhausted"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Reader reads logical records from a LineSource. Blank lines are always skipped; Trim and
// IgnoreEmpty are applied before a record is returned. Once LoadHeader has run, records come
// back as *Named, otherwise as Positional.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	src     LineSource
	dialect Dialect
	parser  *Parser
	log     *slog.Logger

	header     *Header
	state      State
	line       int
	recordLine int
}

// NewReader creates a Reader over src, panicking if src is nil. The dialect defaults to
// DefaultDialect and is adjusted by opts.
func NewReader(src LineSource, opts ...Option) (*Reader, error) {
	if src == nil {
		panic("supercsv: line source cannot be nil")
	}
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	r := &Reader{log: s.logger}
	if err := r.configure(s.dialect); err != nil {
		return nil, err
	}
	r.attach(src)
	return r, nil
}

// OpenReader opens path on fs and returns a Reader that owns the file. The caller must Close it.
func OpenReader(fs afero.Fs, path string, opts ...Option) (*Reader, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	src, err := OpenSource(fs, path, s.dialect)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(src, opts...)
	if err != nil {
		src.Close()
		return nil, err
	}
	r.log = r.log.With("path", path)
	return r, nil
}

// Reset attaches src to r, discarding any header and position. The previous source is not closed.
// A zero Reader uses DefaultDialect.
func (r *Reader) Reset(src LineSource) error {
	if src == nil {
		panic("supercsv: line source cannot be nil")
	}
	if r.parser == nil {
		if err := r.configure(DefaultDialect()); err != nil {
			return err
		}
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	r.attach(src)
	return nil
}

// Reopen rewinds the source and continues with dialect d. Any loaded header is discarded.
func (r *Reader) Reopen(d Dialect) error {
	if err := r.usable(); err != nil {
		return err
	}
	parser, err := NewParser(d)
	if err != nil {
		return err
	}
	if err := r.src.Rewind(); err != nil {
		return err
	}
	r.dialect = d
	r.parser = parser
	r.header = nil
	r.state = StateOpen
	r.line = 0
	r.log.Debug("reader reopened", "delimiter", string(d.Delimiter), "enclosure", string(d.Enclosure))
	return nil
}

// Dialect returns the dialect records are parsed with.
func (r *Reader) Dialect() Dialect { return r.dialect }

// State returns the lifecycle state.
func (r *Reader) State() State { return r.state }

// Header returns the loaded header, or nil.
func (r *Reader) Header() *Header { return r.header }

// Line returns the number of physical lines consumed since the start of the stream.
func (r *Reader) Line() int { return r.line }

// Read returns the next record, or io.EOF when the source holds no more records.
func (r *Reader) Read() (Record, error) {
	fields, err := r.readFields()
	if err != nil {
		return nil, err
	}
	if r.header == nil {
		return Positional(fields), nil
	}
	rec, err := r.header.Bind(fields)
	if err != nil {
		return nil, &ParseError{Line: r.recordLine, Column: 1, Err: err}
	}
	return rec, nil
}

// LoadHeader consumes the next record and binds its fields as the header. Trim and
// IgnoreEmpty apply to the header line as to any other record.
func (r *Reader) LoadHeader() error {
	if err := r.usable(); err != nil {
		return err
	}
	if r.header != nil {
		return ErrHeaderBound
	}
	return r.loadHeader()
}

func (r *Reader) loadHeader() error {
	fields, err := r.readFields()
	if err != nil {
		return err
	}
	h, err := NewHeader(fields)
	if err != nil {
		return &ParseError{Line: r.recordLine, Column: 1, Err: err}
	}
	r.header = h
	r.log.Debug("header loaded", "fields", h.Len(), "line", r.recordLine)
	return nil
}

// ReadAll reads every remaining record and then rewinds, so a later Read or ReadAll starts
// over from the first record. A loaded header is reloaded by the rewind.
func (r *Reader) ReadAll() (records []Record, err error) {
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := r.Rewind(); err != nil {
		return nil, err
	}
	return records, nil
}

// Rewind moves back to the start of the source. When a header was loaded it is read again
// from the new first record.
func (r *Reader) Rewind() error {
	if err := r.usable(); err != nil {
		return err
	}
	if err := r.src.Rewind(); err != nil {
		return err
	}
	r.state = StateOpen
	r.line = 0
	r.log.Debug("reader rewound", "reload_header", r.header != nil)
	if r.header == nil {
		return nil
	}
	r.header = nil
	if err := r.loadHeader(); err != nil {
		return fmt.Errorf("reload header: %w", err)
	}
	return nil
}

// Close releases the source. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.state == StateClosed || r.src == nil {
		return nil
	}
	r.state = StateClosed
	return r.src.Close()
}

func (r *Reader) configure(d Dialect) error {
	parser, err := NewParser(d)
	if err != nil {
		return err
	}
	r.dialect = d
	r.parser = parser
	return nil
}

func (r *Reader) attach(src LineSource) {
	r.src = src
	r.header = nil
	r.state = StateOpen
	r.line = 0
	r.recordLine = 0
}

func (r *Reader) usable() error {
	switch r.state {
	case StateUnopened:
		return ErrNotOpen
	case StateClosed:
		return ErrClosed
	}
	return nil
}

// readFields pulls lines until one carries a record that survives the filters.
func (r *Reader) readFields() ([]string, error) {
	if err := r.usable(); err != nil {
		return nil, err
	}
	if r.state == StateExhausted {
		return nil, io.EOF
	}

	for {
		fields, err := r.nextRecord()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.state = StateExhausted
			}
			return nil, err
		}
		if fields == nil {
			r.log.Debug("skipping blank line", "line", r.recordLine)
			continue
		}
		if r.dialect.Trim {
			for i := range fields {
				fields[i] = trimField(fields[i])
			}
		}
		if r.dialect.IgnoreEmpty && isEmptyFields(fields) {
			r.log.Debug("skipping empty record", "line", r.recordLine)
			continue
		}
		if r.header == nil && r.dialect.FieldsPerRecord > 0 && len(fields) != r.dialect.FieldsPerRecord {
			return nil, &ParseError{Line: r.recordLine, Column: 1, Err: ErrFieldCount}
		}
		return fields, nil
	}
}

// nextRecord parses one logical record, joining physical lines while an enclosure is open.
// Lines are joined with the terminator that separated them. A blank line yields nil fields.
func (r *Reader) nextRecord() ([]string, error) {
	text, err := r.src.ReadLine()
	if err != nil {
		return nil, err
	}
	r.line++
	r.recordLine = r.line

	// starts holds the offset of each physical line within text.
	starts := []int{0}
	for {
		fields, openAt := r.parser.split(text)
		if openAt == 0 {
			return fields, nil
		}
		sep := r.terminator()
		next, err := r.src.ReadLine()
		if errors.Is(err, io.EOF) {
			i := len(starts) - 1
			for starts[i] > openAt-1 {
				i--
			}
			return nil, &ParseError{Line: r.recordLine + i, Column: openAt - starts[i], Err: ErrUnterminatedEnclosure}
		}
		if err != nil {
			return nil, err
		}
		r.line++
		starts = append(starts, len(text)+len(sep))
		text += sep + next
	}
}

// terminator reports the terminator the source stripped from its last line. Sources that
// do not track it are assumed to use \n.
func (r *Reader) terminator() string {
	if t, ok := r.src.(interface{ terminator() string }); ok {
		if term := t.terminator(); term != "" {
			return term
		}
	}
	return "\n"
}
