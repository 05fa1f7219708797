package supercsv

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
)

var errNilWriter = errors.New("supercsv: writer is nil")

// Writer emits logical records to a LineSink. Trim and IgnoreEmpty are applied before a record
// is formatted. After SetHeader, *Named records are laid out in header order.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	dst       LineSink
	dialect   Dialect
	formatter *Formatter
	log       *slog.Logger

	header *Header
	buf    []byte
	err    error
	closed bool
}

// NewWriter creates a Writer over dst, panicking if dst is nil.
func NewWriter(dst LineSink, opts ...Option) (*Writer, error) {
	if dst == nil {
		panic("supercsv: line sink cannot be nil")
	}
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	formatter, err := NewFormatter(s.dialect)
	if err != nil {
		return nil, err
	}
	return &Writer{
		dst:       dst,
		dialect:   s.dialect,
		formatter: formatter,
		log:       s.logger,
		buf:       make([]byte, 0, 256),
	}, nil
}

// CreateWriter opens path on fs according to mode and returns a Writer that owns the file.
// The caller must Close it; with SinkTruncate the file only appears once Close succeeds.
func CreateWriter(fs afero.Fs, path string, mode SinkMode, opts ...Option) (*Writer, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	dst, err := CreateSink(fs, path, mode, s.dialect)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(dst, opts...)
	if err != nil {
		dst.Close()
		return nil, err
	}
	w.log = w.log.With("path", path)
	return w, nil
}

// Dialect returns the dialect records are formatted with.
func (w *Writer) Dialect() Dialect { return w.dialect }

// Header returns the bound header, or nil.
func (w *Writer) Header() *Header { return w.header }

// SetHeader binds names as the header and writes them as the next line. Filters do not apply
// to the header line.
func (w *Writer) SetHeader(names []string) error {
	if err := w.usable(); err != nil {
		return err
	}
	if w.header != nil {
		return ErrHeaderBound
	}
	h, err := NewHeader(names)
	if err != nil {
		return err
	}
	if err := w.emit(h.names); err != nil {
		return err
	}
	w.header = h
	w.log.Debug("header written", "fields", h.Len())
	return nil
}

// Write emits a single record. With IgnoreEmpty set, a record whose written fields are all
// empty (after trimming) is dropped without error. With a header bound, a *Named record must
// hold every header name and only header names are written. A record with no fields fails
// with ErrMalformedRecord, since it would read back as a blank line.
func (w *Writer) Write(rec Record) error {
	if err := w.usable(); err != nil {
		return err
	}
	if rec == nil {
		rec = Positional(nil)
	}

	if w.dialect.Trim {
		rec = trimRecord(rec)
	}

	fields := rec.Values()
	if w.header != nil {
		ordered, err := w.header.Order(rec)
		if err != nil {
			if w.dialect.IgnoreEmpty && isEmptyFields(fields) {
				w.log.Debug("dropping empty record")
				return nil
			}
			return err
		}
		fields = ordered
	}
	if w.dialect.IgnoreEmpty && isEmptyFields(fields) {
		w.log.Debug("dropping empty record")
		return nil
	}
	return w.emit(fields)
}

// WriteAll writes records in order, stopping at the first error. Records written before the
// failure stay in the sink.
func (w *Writer) WriteAll(records []Record) error {
	if w == nil {
		return errNilWriter
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush pushes buffered lines to the sink's underlying stream.
func (w *Writer) Flush() error {
	if err := w.usable(); err != nil {
		return err
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error reports the first error encountered by the sink.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

// Close flushes and releases the sink. It is safe to call more than once.
func (w *Writer) Close() error {
	if w == nil {
		return errNilWriter
	}
	if w.closed || w.dst == nil {
		return nil
	}
	w.closed = true
	return w.dst.Close()
}

func (w *Writer) usable() error {
	switch {
	case w == nil:
		return errNilWriter
	case w.dst == nil:
		return ErrNotOpen
	case w.closed:
		return ErrClosed
	}
	return nil
}

func (w *Writer) emit(fields []string) error {
	if w.err != nil {
		return w.err
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: record has no fields", ErrMalformedRecord)
	}
	w.buf = w.formatter.AppendFormat(w.buf[:0], fields)
	if err := w.dst.WriteLine(string(w.buf)); err != nil {
		w.err = err
		return err
	}
	return nil
}

// trimRecord returns a trimmed copy so the caller's record is left untouched.
func trimRecord(rec Record) Record {
	switch r := rec.(type) {
	case *Named:
		out := NewNamed()
		for _, name := range r.Keys() {
			v, _ := r.Get(name)
			out.Set(name, trimField(v))
		}
		return out
	default:
		values := rec.Values()
		out := make(Positional, len(values))
		for i, v := range values {
			out[i] = trimField(v)
		}
		return out
	}
}
