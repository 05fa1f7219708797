package supercsv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const defaultBufferSize = 4 << 10

// LineSource yields physical lines of text without their terminators.
type LineSource interface {
	// ReadLine returns the next line, or io.EOF when the stream is exhausted.
	ReadLine() (string, error)
	// Rewind moves back to the first line.
	Rewind() error
	// Close releases the underlying stream.
	Close() error
}

// Source is a LineSource over an io.Reader. Lines end at \n, \r\n or a lone \r.
// A leading UTF-8 or UTF-16 byte-order mark is consumed, and bytes are decoded from
// the dialect's Charset when one is set.
type Source struct {
	r       io.Reader
	charset encoding.Encoding
	br      *bufio.Reader
	line    []byte
	term    string
	closer  io.Closer
	closed  bool
}

// NewSource wraps r. The caller keeps ownership of r; Close does not close it.
func NewSource(r io.Reader, d Dialect) (*Source, error) {
	if r == nil {
		panic("supercsv: source reader cannot be nil")
	}
	enc, err := lookupCharset(d.Charset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDialect, err)
	}
	s := &Source{
		r:       r,
		charset: enc,
		line:    make([]byte, 0, 256),
	}
	s.br = bufio.NewReaderSize(s.decoded(), defaultBufferSize)
	return s, nil
}

// OpenSource opens path on fs and returns a Source that owns the file.
func OpenSource(fs afero.Fs, path string, d Dialect) (*Source, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	s, err := NewSource(f, d)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// ReadLine returns the next line without its terminator. The final line does not need one.
func (s *Source) ReadLine() (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	s.line = s.line[:0]
	s.term = ""
	got := false
	for {
		if _, err := s.br.Peek(1); err != nil {
			if errors.Is(err, io.EOF) && got {
				return string(s.line), nil
			}
			return "", err
		}
		got = true
		data, _ := s.br.Peek(s.br.Buffered())

		idx := bytes.IndexAny(data, "\r\n")
		if idx < 0 {
			s.line = append(s.line, data...)
			s.br.Discard(len(data))
			continue
		}

		s.line = append(s.line, data[:idx]...)
		s.term = "\n"
		s.br.Discard(idx + 1)
		if data[idx] == '\r' {
			s.term = "\r"
			// Fold \r\n into one terminator.
			if next, err := s.br.Peek(1); err == nil && next[0] == '\n' {
				s.br.Discard(1)
				s.term = "\r\n"
			}
		}
		return string(s.line), nil
	}
}

// terminator returns the terminator stripped from the last line, or "" when that line
// ended the stream without one.
func (s *Source) terminator() string { return s.term }

// Rewind seeks the underlying reader back to its start. It fails with ErrNotRewindable
// when the reader is not an io.Seeker.
func (s *Source) Rewind() error {
	if s.closed {
		return ErrClosed
	}
	seeker, ok := s.r.(io.Seeker)
	if !ok {
		return ErrNotRewindable
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrNotRewindable, err)
	}
	s.br.Reset(s.decoded())
	return nil
}

// Close releases the file opened by OpenSource. It is safe to call more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *Source) decoded() io.Reader {
	var fallback transform.Transformer = transform.Nop
	if s.charset != nil {
		fallback = s.charset.NewDecoder()
	}
	return transform.NewReader(s.r, unicode.BOMOverride(fallback))
}

// lookupCharset resolves a WHATWG/IANA encoding name. The empty name means no transcoding.
func lookupCharset(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q", name)
	}
	return enc, nil
}
