package sqlstore

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// NoResults is the tool text for a query that returned no rows.
const NoResults = "No results found for the query."

// Rows is a fully read result set.
type Rows struct {
	Columns []string
	Values  [][]any
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Values)
}

// Format renders the rows the way the model expects to read them:
//
//	Columns: id, name, email
//	(1, 'Alice', 'alice@example.com')
//	(2, 'Bob', 'bob@example.com')
//
// Each row is a tuple literal: strings single-quoted, NULL as None, a one-column
// row with a trailing comma. An empty result is NoResults.
func (r *Rows) Format() string {
	if r.Len() == 0 {
		return NoResults
	}

	var sb strings.Builder
	sb.WriteString("Columns: ")
	sb.WriteString(strings.Join(r.Columns, ", "))
	sb.WriteString("\n")
	for _, row := range r.Values {
		sb.WriteString(formatTuple(row))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatTuple(row []any) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = formatValue(v)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatFloat(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		return quote(v)
	case []byte:
		return "b" + quote(string(v))
	case time.Time:
		return quote(v.Format("2006-01-02 15:04:05"))
	default:
		return quote(fmt.Sprint(v))
	}
}

// formatFloat prints the shortest representation, positional between 1e-4 and
// 1e16, always with a fractional part or an exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	exp := 0
	if f != 0 {
		exp = int(math.Floor(math.Log10(math.Abs(f))))
	}
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// quote single-quotes s, switching to double quotes when s contains a single
// quote and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(q):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == unicode.ReplacementChar:
			sb.WriteRune(r)
		case !unicode.IsPrint(r):
			switch {
			case r < 0x100:
				fmt.Fprintf(&sb, `\x%02x`, r)
			case r < 0x10000:
				fmt.Fprintf(&sb, `\u%04x`, r)
			default:
				fmt.Fprintf(&sb, `\U%08x`, r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}
