// # csvtrim: Fixed-Shape CSV Normalisation for Go
//
// csvtrim reads a delimited text file, trims every field, reorders each record into a fixed four-column
// shape, caps the description column at a maximum length, and writes the result as comma-separated output.
//
// # Features
//
// - Line-oriented reader with string delimiters (comma, semicolon, or short multi-byte separators).
// - Buffered writer with RFC 4180 quoting so every output row stays exactly four fields wide.
// - Rune or grapheme-cluster truncation of the description column.
// - Atomic output: a failed job never leaves a partial file behind.
// - Structured errors via `ErrSourceNotFound`, `ErrMalformedRow`, `ErrInvalidLength`, and `ParseError`.
//
// # Getting Started
//
//	n, err := csvtrim.Transform("in.csv", "out.csv", 30, csvtrim.WithDelimiter(";"))
//	if errors.Is(err, csvtrim.ErrSourceNotFound) {
//		// input is missing, out.csv was not touched
//	}
package csvtrim
