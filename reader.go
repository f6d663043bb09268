package csvtrim

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unsafe"
)

const defaultBufferSize = 1 << 10 // 1024 bytes

var (
	// ErrMalformedRow is returned when a record has fewer fields than the output shape requires.
	ErrMalformedRow = errors.New("csvtrim: too few fields in record")
	// ErrEmptyDelimiter is returned when Reader.Comma is set to the empty string.
	ErrEmptyDelimiter = errors.New("csvtrim: delimiter cannot be empty")
)

// ParseError contains location information for record errors.
type ParseError struct {
	Line int
	Err  error
}

// Error formats the parse error message with the stored line and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvtrim: parse error on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Reader splits delimited text into records, one record per line.
// Quotes carry no special meaning: every occurrence of Comma separates two fields.
type Reader struct {
	src *bufio.Reader

	// Comma is the field delimiter. Default is ",".
	Comma string
	// TrimSpace removes leading and trailing white space from every field.
	TrimSpace bool
	// ReuseRecord indicates whether Read should reuse the backing array of the returned slice.
	ReuseRecord bool

	lineBuf  []byte
	record   []string
	line     int
	nextLine int
	finished bool
}

// NewReader creates a Reader that consumes delimited data from r, panicking if r is nil.
// The returned Reader splits on "," and trims every field.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		panic("csvtrim: reader source cannot be nil")
	}

	return &Reader{
		src:       bufio.NewReaderSize(r, defaultBufferSize),
		Comma:     ",",
		TrimSpace: true,
		lineBuf:   make([]byte, 0, 256),
		record:    make([]string, 0, 8),
		nextLine:  1,
	}
}

// Line reports the 1-based line number of the record most recently returned by Read.
func (r *Reader) Line() int {
	if r == nil {
		return 0
	}
	return r.line
}

// Read returns the fields of the next non-blank line. Blank lines are skipped.
// io.EOF signals that no more records remain.
func (r *Reader) Read() (dst []string, err error) {
	if r == nil || r.src == nil || r.finished {
		return nil, io.EOF
	}
	if r.Comma == "" {
		return nil, ErrEmptyDelimiter
	}

	for {
		line, err := r.readLine()
		if err != nil && err != io.EOF {
			r.finished = true
			return nil, err
		}
		if err == io.EOF {
			r.finished = true
			if len(line) == 0 {
				return nil, io.EOF
			}
		}
		if len(line) == 0 {
			continue
		}
		return r.buildRecord(line), nil
	}
}

// ReadAll exhausts the reader, returning every record plus the first non-EOF error encountered.
func (r *Reader) ReadAll() (records [][]string, err error) {
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		if r.ReuseRecord {
			// Reused fields alias the line buffer, which the next Read overwrites.
			owned := make([]string, len(record))
			for i, f := range record {
				owned[i] = strings.Clone(f)
			}
			record = owned
		}
		records = append(records, record)
	}
}

// readLine collects one physical line without its terminator and advances the line counters.
// A final line lacking a terminator is returned together with io.EOF.
func (r *Reader) readLine() ([]byte, error) {
	r.lineBuf = r.lineBuf[:0]
	for {
		chunk, err := r.src.ReadSlice('\n')
		r.lineBuf = append(r.lineBuf, chunk...)
		if err == bufio.ErrBufferFull {
			continue
		}
		r.line = r.nextLine
		if err != nil {
			return bytes.TrimSuffix(r.lineBuf, []byte{'\r'}), err
		}
		r.nextLine++
		line := r.lineBuf[:len(r.lineBuf)-1]
		return bytes.TrimSuffix(line, []byte{'\r'}), nil
	}
}

// buildRecord splits line on Comma, honouring ReuseRecord and TrimSpace.
func (r *Reader) buildRecord(line []byte) []string {
	var s string
	if r.ReuseRecord {
		// Zero-copy string construction so fields share the line buffer until the next Read.
		s = unsafe.String(unsafe.SliceData(line), len(line))
		r.record = r.record[:0]
	} else {
		s = string(line)
		r.record = make([]string, 0, strings.Count(s, r.Comma)+1)
	}

	for {
		idx := strings.Index(s, r.Comma)
		if idx < 0 {
			r.record = append(r.record, r.field(s))
			return r.record
		}
		r.record = append(r.record, r.field(s[:idx]))
		s = s[idx+len(r.Comma):]
	}
}

func (r *Reader) field(s string) string {
	if r.TrimSpace {
		return strings.TrimSpace(s)
	}
	return s
}
