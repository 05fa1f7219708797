package supercsv

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
)

func FuzzFormatParseRoundTrip(f *testing.F) {
	seeds := []string{
		"a\x1fb\x1fc",
		"C D\x1fE\"F",
		"H,I\x1f",
		"\x1f",
		"two\nlines\x1fx",
		"back\\slash\x1f\\\"",
		"\"quoted\"  \x1f trailing blank ",
		"caf\xE9\x1f\xFF",
	}
	for _, seed := range seeds {
		f.Add(seed, false)
	}
	f.Add("a\x1fb", true)

	f.Fuzz(func(t *testing.T, joined string, alwaysQuote bool) {
		if len(joined) > 1<<12 {
			t.Skip()
		}
		fields := strings.Split(joined, "\x1f")

		d := DefaultDialect()
		d.AlwaysQuote = alwaysQuote
		formatter, err := NewFormatter(d)
		if err != nil {
			t.Fatal(err)
		}
		parser, err := NewParser(d)
		if err != nil {
			t.Fatal(err)
		}

		line := formatter.Format(fields)
		got, err := parser.Parse(line)
		if err != nil {
			t.Fatalf("parse %q: %v", truncateForMessage(line), err)
		}
		if !slices.Equal(fields, got) {
			t.Fatalf("round trip mismatch:\nfields=%q\nline=%q\ngot=%q", fields, truncateForMessage(line), got)
		}
	})
}

func FuzzReaderConsistency(f *testing.F) {
	seeds := []string{
		"",
		"a,b,c\n",
		"a,\"b,b\",c\n",
		"a,\"b\nc\",d\n",
		"\"unterminated\n",
		"a\"b,c\n",
		"one\r\ntwo\r\n",
		"trailing,newline\n",
		"\n\n,,\n",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 1<<12 {
			t.Skip()
		}

		recordsSequential, errSequential := readRecordsSequential(input)
		recordsAll, errAll := readRecordsAll(input)

		if !sameReaderError(errSequential, errAll) {
			t.Fatalf("ReadAll mismatch: errSequential=%v errAll=%v input=%q", errSequential, errAll, truncateForMessage(input))
		}
		if errSequential == nil && !recordsEqual(recordsSequential, recordsAll) {
			t.Fatalf("records mismatch with ReadAll:\nsequential=%v\nreadAll=%v\ninput=%q", recordsSequential, recordsAll, truncateForMessage(input))
		}
	})
}

func readRecordsSequential(input string) ([][]string, error) {
	src, err := NewSource(strings.NewReader(input), DefaultDialect())
	if err != nil {
		return nil, err
	}
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}

	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec.Values())
	}
}

func readRecordsAll(input string) ([][]string, error) {
	src, err := NewSource(strings.NewReader(input), DefaultDialect())
	if err != nil {
		return nil, err
	}
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(records))
	for i, rec := range records {
		out[i] = rec.Values()
	}
	return out, nil
}

func sameReaderError(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	sigA, lineA, colA := readerErrorSignature(a)
	sigB, lineB, colB := readerErrorSignature(b)
	return sigA == sigB && lineA == lineB && colA == colB
}

func readerErrorSignature(err error) (sig string, line int, column int) {
	var perr *ParseError
	if errors.As(err, &perr) {
		switch {
		case errors.Is(perr.Err, ErrUnterminatedEnclosure):
			return "unterminated_enclosure", perr.Line, perr.Column
		case errors.Is(perr.Err, ErrFieldCount):
			return "field_count", perr.Line, perr.Column
		default:
			return perr.Err.Error(), perr.Line, perr.Column
		}
	}
	return err.Error(), 0, 0
}

func recordsEqual(a, b [][]string) bool {
	return slices.EqualFunc(a, b, func(x, y []string) bool { return slices.Equal(x, y) })
}

func truncateForMessage(s string) string {
	const max = 256
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
