package supercsv

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// trimCutset is the white space Trim strips from field values. Other Unicode spaces,
// such as U+00A0, are part of the value.
const trimCutset = " \t\n\r\x00\x0b"

// Record is one logical row. It is either a Positional field slice or a *Named record;
// Readers return *Named once a header is loaded and Positional otherwise.
type Record interface {
	// Len returns the number of fields.
	Len() int
	// Values returns the field values in record order.
	Values() []string

	isRecord()
}

// Positional is a record addressed by field index.
type Positional []string

// Len returns the number of fields.
func (p Positional) Len() int { return len(p) }

// Values returns the fields themselves.
func (p Positional) Values() []string { return p }

func (Positional) isRecord() {}

// Named is a record addressed by field name. Names keep their insertion order,
// which for records returned by a Reader is the header order.
type Named struct {
	fields *orderedmap.OrderedMap[string, string]
}

// NewNamed returns an empty named record.
func NewNamed() *Named {
	return &Named{fields: orderedmap.New[string, string]()}
}

// Set stores value under name, keeping the original position when name is already present.
// It returns n so calls can be chained.
func (n *Named) Set(name, value string) *Named {
	if n.fields == nil {
		n.fields = orderedmap.New[string, string]()
	}
	n.fields.Set(name, value)
	return n
}

// Get returns the value stored under name.
func (n *Named) Get(name string) (string, bool) {
	if n == nil || n.fields == nil {
		return "", false
	}
	return n.fields.Get(name)
}

// Has reports whether name is present.
func (n *Named) Has(name string) bool {
	_, ok := n.Get(name)
	return ok
}

// Len returns the number of fields.
func (n *Named) Len() int {
	if n == nil || n.fields == nil {
		return 0
	}
	return n.fields.Len()
}

// Keys returns the field names in insertion order.
func (n *Named) Keys() []string {
	keys := make([]string, 0, n.Len())
	if n.Len() == 0 {
		return keys
	}
	for pair := n.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Values returns the field values in insertion order.
func (n *Named) Values() []string {
	values := make([]string, 0, n.Len())
	if n.Len() == 0 {
		return values
	}
	for pair := n.fields.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}
	return values
}

// Map copies the record into a plain map.
func (n *Named) Map() map[string]string {
	m := make(map[string]string, n.Len())
	if n.Len() == 0 {
		return m
	}
	for pair := n.fields.Oldest(); pair != nil; pair = pair.Next() {
		m[pair.Key] = pair.Value
	}
	return m
}

func (*Named) isRecord() {}

func isEmptyFields(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

func trimField(v string) string {
	return strings.Trim(v, trimCutset)
}
