package csvtrim

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Source column positions.
const (
	colID = iota
	colAttribute
	colDescription
	colDate

	// MinFields is the number of source fields a record needs to produce a Row.
	MinFields
)

// Row is one output record. Fields are written in the order ID, Attribute, Date, Description.
type Row struct {
	ID          string
	Attribute   string
	Date        string
	Description string
}

// Fields returns the row in output column order.
func (r Row) Fields() [4]string {
	return [4]string{r.ID, r.Attribute, r.Date, r.Description}
}

// ParseRow builds a Row from trimmed source fields, capping Description at maxDescriptionLength runes.
// White space exposed by the cut is trimmed as well. Fields beyond MinFields are ignored.
// A short record yields ErrMalformedRow.
func ParseRow(fields []string, maxDescriptionLength int) (Row, error) {
	return parseRow(fields, maxDescriptionLength, Truncate)
}

func parseRow(fields []string, n int, truncate func(string, int) string) (Row, error) {
	if len(fields) < MinFields {
		return Row{}, ErrMalformedRow
	}
	return Row{
		ID:          fields[colID],
		Attribute:   fields[colAttribute],
		Date:        fields[colDate],
		Description: strings.TrimRightFunc(truncate(fields[colDescription], n), unicode.IsSpace),
	}, nil
}

// Truncate returns the first n runes of s, or s unchanged when it is no longer than n.
// A negative n is treated as zero.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// TruncateGraphemes returns the first n grapheme clusters of s, so combining marks
// and emoji sequences are never split.
func TruncateGraphemes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	end := 0
	rest := s
	state := -1
	for ; n > 0 && rest != ""; n-- {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		end += len(cluster)
	}
	return s[:end]
}
