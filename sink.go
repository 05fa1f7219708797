package supercsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/text/transform"
)

// LineSink accepts physical lines of text and terminates each one.
type LineSink interface {
	// WriteLine appends line followed by the sink's terminator.
	WriteLine(line string) error
	// Flush pushes buffered lines to the underlying stream.
	Flush() error
	// Close flushes and releases the underlying stream.
	Close() error
}

// SinkMode selects how CreateSink treats an existing file.
type SinkMode int

const (
	// SinkTruncate replaces the file. Lines go to a temporary file that is renamed over
	// the target on a successful Close.
	SinkTruncate SinkMode = iota
	// SinkAppend appends to the file, creating it when missing.
	SinkAppend
)

// Sink is a buffered LineSink over an io.Writer. Lines are terminated with \n, or \r\n when
// the dialect sets UseCRLF, and encoded to the dialect's Charset when one is set.
type Sink struct {
	bw      *bufio.Writer
	encoder *transform.Writer
	term    string

	fs      afero.Fs
	file    afero.File
	path    string
	tmpPath string

	err    error
	closed bool
}

// NewSink wraps w. The caller keeps ownership of w; Close flushes but does not close it.
func NewSink(w io.Writer, d Dialect) (*Sink, error) {
	if w == nil {
		panic("supercsv: sink writer cannot be nil")
	}
	enc, err := lookupCharset(d.Charset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDialect, err)
	}
	s := &Sink{term: d.terminator()}
	if enc != nil {
		s.encoder = transform.NewWriter(w, enc.NewEncoder())
		w = s.encoder
	}
	s.bw = bufio.NewWriterSize(w, defaultBufferSize)
	return s, nil
}

// CreateSink opens path on fs for writing according to mode and returns a Sink that owns the file.
func CreateSink(fs afero.Fs, path string, mode SinkMode, d Dialect) (*Sink, error) {
	var (
		f       afero.File
		tmpPath string
		err     error
	)
	switch mode {
	case SinkAppend:
		f, err = fs.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	default:
		tmpPath = filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
		f, err = fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}

	s, err := NewSink(f, d)
	if err != nil {
		f.Close()
		if tmpPath != "" {
			fs.Remove(tmpPath)
		}
		return nil, err
	}
	s.fs = fs
	s.file = f
	s.path = path
	s.tmpPath = tmpPath
	return s, nil
}

// WriteLine buffers line and its terminator. The first write error is kept and returned
// by every later call.
func (s *Sink) WriteLine(line string) error {
	if s.closed {
		return ErrClosed
	}
	if s.err != nil {
		return s.err
	}
	if _, err := s.bw.WriteString(line); err != nil {
		s.err = err
		return err
	}
	if _, err := s.bw.WriteString(s.term); err != nil {
		s.err = err
		return err
	}
	return nil
}

// Flush writes buffered lines to the underlying writer.
func (s *Sink) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if s.err != nil {
		return s.err
	}
	if err := s.bw.Flush(); err != nil {
		s.err = err
		return err
	}
	return nil
}

// Close flushes pending lines and releases the file opened by CreateSink. For SinkTruncate the
// target is only replaced when every write succeeded. Close is safe to call more than once.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	err := s.Flush()
	s.closed = true
	if s.encoder != nil {
		err = errors.Join(err, s.encoder.Close())
	}
	if s.file != nil {
		err = errors.Join(err, s.file.Close())
	}
	if s.tmpPath == "" {
		return err
	}
	if err != nil {
		return errors.Join(err, s.fs.Remove(s.tmpPath))
	}
	if rerr := s.fs.Rename(s.tmpPath, s.path); rerr != nil {
		return errors.Join(fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.path, rerr), s.fs.Remove(s.tmpPath))
	}
	return nil
}
