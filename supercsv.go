// # SuperCSV: Record-Oriented CSV Reading and Writing for Go
//
// SuperCSV reads and writes CSV files one logical record at a time. It supports a configurable
// delimiter, enclosure and escape character, optional header-based field naming, and record-level
// filtering (blank-line skipping, empty-record skipping, value trimming).
//
// # Features
//
// - `Reader` with an explicit read/skip loop, header binding (`LoadHeader`), `Rewind`, and a non-destructive `ReadAll`.
// - `Writer` with header emission (`SetHeader`), name-keyed writes, and the same trim/ignore-empty filters.
// - `Parser` and `Formatter` for working on single lines without any I/O.
// - Records as a tagged variant: `Positional` field slices or ordered, name-keyed `*Named` records.
// - Line sources and sinks over any `io.Reader`/`io.Writer` or an `afero.Fs`, with charset and BOM handling.
// - Structured error reporting via `ParseError` and sentinel errors such as `ErrMalformedRecord` and `ErrHeaderFieldMissing`.
//
// # Getting Started
//
// The module path is `github.com/oleg578/supercsv`. The `config` package loads a `Dialect` from a file and
// the environment; `examples/` contains a runnable walkthrough.
package supercsv
