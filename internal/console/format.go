package console

import (
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mattn/go-runewidth"
)

const (
	indent    = "   "
	separator = " | "
	nullText  = "NULL"
)

// WriteTable prints rows column-aligned under a header and a dashed rule.
// Widths are display widths so CJK names line up.
func WriteTable(w io.Writer, columns []string, rows [][]any) {
	if len(rows) == 0 {
		fmt.Fprintln(w, indent+"(no rows)")
		return
	}
	cells := make([][]string, len(rows))
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i := range columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			s := FormatValue(v)
			cells[r][i] = s
			if n := runewidth.StringWidth(s); n > widths[i] {
				widths[i] = n
			}
		}
	}

	header := joinPadded(columns, widths)
	fmt.Fprintln(w, indent+header)
	fmt.Fprintln(w, indent+strings.Repeat("-", runewidth.StringWidth(header)))
	for _, row := range cells {
		fmt.Fprintln(w, indent+joinPadded(row, widths))
	}
}

func joinPadded(values []string, widths []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = runewidth.FillRight(v, widths[i])
	}
	return strings.TrimRight(strings.Join(parts, separator), " ")
}

// FormatValue renders one driver value for display.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return nullText
	case string:
		return oneLine(t)
	case []byte:
		return oneLine(string(t))
	case time.Time:
		return t.Format("2006-01-02 15:04:05.000Z07:00")
	case pgtype.Numeric:
		return formatNumeric(t)
	case fmt.Stringer:
		return oneLine(t.String())
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return fmt.Sprintf("<%v>", err)
		}
		if dv == nil {
			return nullText
		}
		return FormatValue(dv)
	default:
		return fmt.Sprint(t)
	}
}

// formatNumeric prints a numeric in plain decimal notation.
func formatNumeric(n pgtype.Numeric) string {
	switch {
	case !n.Valid:
		return nullText
	case n.NaN:
		return "NaN"
	case n.InfinityModifier == pgtype.Infinity:
		return "Infinity"
	case n.InfinityModifier == pgtype.NegativeInfinity:
		return "-Infinity"
	case n.Int == nil:
		return "0"
	}
	digits := n.Int.String()
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if n.Exp >= 0 {
		return sign + digits + strings.Repeat("0", int(n.Exp))
	}
	frac := int(-n.Exp)
	if len(digits) <= frac {
		digits = strings.Repeat("0", frac-len(digits)+1) + digits
	}
	point := len(digits) - frac
	return sign + digits[:point] + "." + digits[point:]
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}

// Abbreviate shortens a statement for progress output.
func Abbreviate(sql string, max int) string {
	sql = strings.Join(strings.Fields(sql), " ")
	r := []rune(sql)
	if len(r) <= max {
		return sql
	}
	return string(r[:max]) + "..."
}
