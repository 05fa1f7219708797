package supercsv

import (
	"fmt"
)

// Header is the ordered, unique list of field names bound to a Reader or Writer.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader builds a Header from names, rejecting duplicates.
func NewHeader(names []string) (*Header, error) {
	h := &Header{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	copy(h.names, names)
	for i, name := range h.names {
		if _, dup := h.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHeader, name)
		}
		h.index[name] = i
	}
	return h, nil
}

// Names returns a copy of the field names in header order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Len returns the number of fields.
func (h *Header) Len() int { return len(h.names) }

// Index returns the position of name.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// Bind zips fields with the header names. The number of fields must match the header.
func (h *Header) Bind(fields []string) (*Named, error) {
	if len(fields) != len(h.names) {
		return nil, fmt.Errorf("%w: got %d, header has %d", ErrFieldCount, len(fields), len(h.names))
	}
	rec := NewNamed()
	for i, name := range h.names {
		rec.Set(name, fields[i])
	}
	return rec, nil
}

// Order lays rec out in header order. A *Named record must hold every header name; extra
// names are ignored. A Positional record must already have the header's width.
func (h *Header) Order(rec Record) ([]string, error) {
	switch r := rec.(type) {
	case *Named:
		out := make([]string, len(h.names))
		for i, name := range h.names {
			v, ok := r.Get(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrHeaderFieldMissing, name)
			}
			out[i] = v
		}
		return out, nil
	case Positional:
		if len(r) != len(h.names) {
			return nil, fmt.Errorf("%w: got %d, header has %d", ErrFieldCount, len(r), len(h.names))
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: unsupported record type %T", ErrMalformedRecord, rec)
	}
}
