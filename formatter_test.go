package supercsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fields  []string
		dialect func(*Dialect)
		want    string
	}{
		{
			name:   "basic",
			fields: []string{"a", "b", "c"},
			want:   "a,b,c",
		},
		{
			name:   "emptyField",
			fields: []string{"", "b"},
			want:   ",b",
		},
		{
			name:   "singleEmptyField",
			fields: []string{""},
			want:   `""`,
		},
		{
			name:   "noFields",
			fields: nil,
			want:   "",
		},
		{
			name:   "spaceStaysBare",
			fields: []string{"C D"},
			want:   "C D",
		},
		{
			name:   "commaForcesQuote",
			fields: []string{"alpha,beta"},
			want:   `"alpha,beta"`,
		},
		{
			name:   "quoteDoubling",
			fields: []string{`he said "hello"`, "plain"},
			want:   `"he said ""hello""",plain`,
		},
		{
			name:   "newlineForcesQuote",
			fields: []string{"multi\nline", "z"},
			want:   "\"multi\nline\",z",
		},
		{
			name:   "carriageReturnForcesQuote",
			fields: []string{"a\rb"},
			want:   "\"a\rb\"",
		},
		{
			name:   "escaperBareWhenUnquoted",
			fields: []string{`C:\path`},
			want:   `C:\path`,
		},
		{
			name:   "escaperPrefixedWhenQuoted",
			fields: []string{`a\,b`, `x\`},
			dialect: func(d *Dialect) {
				d.AlwaysQuote = true
			},
			want: `"a\\,b","x\\"`,
		},
		{
			name:   "alwaysQuote",
			fields: []string{"alpha", "beta"},
			dialect: func(d *Dialect) {
				d.AlwaysQuote = true
			},
			want: `"alpha","beta"`,
		},
		{
			name:   "customComma",
			fields: []string{"a;b", "c"},
			dialect: func(d *Dialect) {
				d.Delimiter = ';'
			},
			want: `"a;b";c`,
		},
		{
			name:   "customCharacters",
			fields: []string{"A", "B", "C D", "E?F"},
			dialect: func(d *Dialect) {
				d.Delimiter = '!'
				d.Enclosure = '?'
			},
			want: "A!B!C D!?E??F?",
		},
		{
			name:   "escaperSameAsEnclosure",
			fields: []string{`a"b`},
			dialect: func(d *Dialect) {
				d.Escaper = '"'
			},
			want: `"a""b"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := DefaultDialect()
			if tc.dialect != nil {
				tc.dialect(&d)
			}
			f, err := NewFormatter(d)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Format(tc.fields))
		})
	}
}

func TestFormatterParserRoundTrip(t *testing.T) {
	t.Parallel()

	dialects := map[string]Dialect{
		"default":  DefaultDialect(),
		"custom":   {Delimiter: '!', Enclosure: '?', Escaper: '\\'},
		"noEscape": {Delimiter: ';', Enclosure: '\'', Escaper: 0},
		"quoted":   {Delimiter: ',', Enclosure: '"', Escaper: '\\', AlwaysQuote: true},
	}
	records := [][]string{
		{"A", "B", "C D", `E"F`},
		{"G", "H,I", "J", "K"},
		{"E?F", "H!I", "??", "!"},
		{`a\`, `\"`, `\\`, `x\,y`},
		{"", "", ""},
		{""},
		{`"`, "'", ";", ","},
		{"  padded  ", "\ttab"},
		{"ünïcödé", "日本語"},
	}

	for name, d := range dialects {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := NewFormatter(d)
			require.NoError(t, err)
			p, err := NewParser(d)
			require.NoError(t, err)

			for _, rec := range records {
				line := f.Format(rec)
				got, err := p.Parse(line)
				require.NoError(t, err, "line %q", line)
				assert.Equal(t, rec, got, "line %q", line)
			}
		})
	}
}
