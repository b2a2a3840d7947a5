package table

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/asaidimu/go-tabula/utils"
)

// MaxSafeInteger is the largest integer a float64 represents exactly.
const MaxSafeInteger = 1<<53 - 1

// ToNumber converts numeric values and numeric-looking strings to float64. It
// reports false for everything else, including NaN and infinities.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case float32:
		f = float64(val)
	case float64:
		f = val
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(val)
		if s == "" || !isDecimal(s) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isDecimal rejects the digit separators and hexadecimal forms that
// strconv.ParseFloat accepts but plain decimal text does not use.
func isDecimal(s string) bool {
	if strings.ContainsRune(s, '_') {
		return false
	}
	s = strings.TrimLeft(s, "+-")
	return !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X")
}

// DefaultSortingKeyAccessor looks the field up on row. Numeric-looking values
// within the safe integer range are returned as float64 so they order
// numerically; anything else is returned as stored.
func DefaultSortingKeyAccessor[T any](row T, field string) any {
	value, _ := utils.FieldValue(row, field)
	if n, ok := ToNumber(value); ok && math.Abs(n) < MaxSafeInteger {
		return n
	}
	return value
}

// CompareValues orders two sort keys, returning -1, 0 or 1.
//
// Nil sorts before any non-nil value. When exactly one side is a number the
// number is compared in its string form, which keeps the order total for
// columns that mix numeric and textual cells.
func CompareValues(a, b any) int {
	aNil, bNil := utils.IsNil(a), utils.IsNil(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return 1
	}

	an, aNum := numericKind(a)
	bn, bNum := numericKind(b)
	switch {
	case aNum && bNum:
		return cmp.Compare(an, bn)
	case aNum:
		return strings.Compare(formatNumber(an), stringOf(b))
	case bNum:
		return strings.Compare(stringOf(a), formatNumber(bn))
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return compareBool(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return strings.Compare(stringOf(a), stringOf(b))
}

// numericKind converts values of Go numeric types to float64. Strings are left
// alone: coercing text is the accessor's job.
func numericKind(v any) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	return ToNumber(v)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	}
	return 1
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// stringOf renders a cell for comparison and filtering. Nil renders empty.
func stringOf(v any) string {
	if utils.IsNil(v) {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return formatNumber(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}
