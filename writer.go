package csvtrim

import (
	"bufio"
	"errors"
	"io"
)

var (
	errNilWriter      = errors.New("csvtrim: writer is nil")
	errWriterNoTarget = errors.New("csvtrim: writer destination cannot be nil")
)

// Writer emits comma-separated records. Fields that contain the separator, a quote,
// or a line break are quoted so a CSV parser always sees the original field count.
type Writer struct {
	dst *bufio.Writer

	// Comma is the field separator. Default is ','.
	Comma byte
	// UseCRLF writes records terminated with \r\n when set.
	UseCRLF bool

	records int
	err     error
}

// NewWriter creates a new Writer buffering output to w.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:   bufio.NewWriterSize(w, defaultBufferSize),
		Comma: ',',
	}
}

// Write emits a single record terminated with the configured newline sequence.
func (w *Writer) Write(record []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}

	comma := w.Comma
	if comma == 0 {
		comma = ','
	}

	for i := range record {
		if i > 0 {
			if err := w.dst.WriteByte(comma); err != nil {
				w.err = err
				return err
			}
		}
		if err := w.writeField(record[i], comma); err != nil {
			w.err = err
			return err
		}
	}

	var err error
	if w.UseCRLF {
		_, err = w.dst.WriteString("\r\n")
	} else {
		err = w.dst.WriteByte('\n')
	}
	if err != nil {
		w.err = err
		return err
	}
	w.records++
	return nil
}

// WriteRow emits the four output fields of row.
func (w *Writer) WriteRow(row Row) error {
	f := row.Fields()
	return w.Write(f[:])
}

// Records reports how many records have been accepted by Write.
func (w *Writer) Records() int {
	if w == nil {
		return 0
	}
	return w.records
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
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

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *Writer) writeField(field string, comma byte) error {
	if !fieldNeedsQuote(field, comma) {
		_, err := w.dst.WriteString(field)
		return err
	}
	if err := w.dst.WriteByte('"'); err != nil {
		return err
	}

	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == '"' {
			if _, err := w.dst.WriteString(field[start : i+1]); err != nil {
				return err
			}
			if err := w.dst.WriteByte('"'); err != nil {
				return err
			}
			start = i + 1
		}
	}
	if _, err := w.dst.WriteString(field[start:]); err != nil {
		return err
	}
	return w.dst.WriteByte('"')
}

func fieldNeedsQuote(field string, comma byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '"', comma, '\n', '\r':
			return true
		}
	}
	return false
}
