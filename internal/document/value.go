package document

import (
	"cmp"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind orders scalar kinds: null < bool < number < string.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	default:
		return "string"
	}
}

// Value is one scalar list element. Two Values are equal (==) exactly when
// they denote the same element, so Value can key a map.
type Value struct {
	Kind Kind
	// Text is the canonical form: the string itself, "true"/"false",
	// a canonical number, or empty for null.
	Text string
	num  float64
}

// Null returns the null element.
func Null() Value { return Value{Kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Text: strconv.FormatBool(b)}
}

// String wraps a string.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Int wraps an integer.
func Int(n int64) Value {
	return Value{Kind: KindNumber, Text: strconv.FormatInt(n, 10), num: float64(n)}
}

const nanText = "NaN"

// Float wraps a float. Integral values in int64 range collapse onto the
// matching Int so that 2 and 2.0 are one element. Every NaN maps to the same
// element, with num left at zero so that == still holds.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Value{Kind: KindNumber, Text: nanText}
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return Value{Kind: KindNumber, Text: strconv.FormatFloat(f, 'g', -1, 64), num: f}
}

// Number parses a decimal literal as produced by encoding/json with UseNumber.
func Number(lit string) (Value, error) {
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return Int(n), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, err
	}
	return Float(f), nil
}

func (v Value) isNaN() bool {
	return v.Kind == KindNumber && v.Text == nanText
}

// Compare orders two Values: by kind, then numerically for numbers, then by
// canonical text. NaN sorts before every other number.
func Compare(a, b Value) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if a.Kind == KindNumber {
		switch an, bn := a.isNaN(), b.isNaN(); {
		case an && bn:
			return 0
		case an:
			return -1
		case bn:
			return 1
		}
		if c := cmp.Compare(a.num, b.num); c != 0 {
			return c
		}
	}
	return strings.Compare(a.Text, b.Text)
}

// Render formats the element the way it appears in a report: strings are
// double-quoted, everything else is bare.
func (v Value) Render() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindString:
		var b strings.Builder
		enc := json.NewEncoder(&b)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v.Text); err != nil {
			return strconv.Quote(v.Text)
		}
		return strings.TrimSuffix(b.String(), "\n")
	default:
		return v.Text
	}
}

// Interface returns the plain Go value for JSON or spreadsheet output.
func (v Value) Interface() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Text == "true"
	case KindNumber:
		if v.isNaN() {
			return math.NaN()
		}
		if n, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
			return n
		}
		return v.num
	default:
		return v.Text
	}
}

// MarshalJSON encodes the element as its JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNaN() || (v.Kind == KindNumber && math.IsInf(v.num, 0)) {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Interface())
}

// RenderList formats values as "[a, b, c]"; an empty list is "[]".
func RenderList(values []Value) string {
	if len(values) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Render())
	}
	b.WriteByte(']')
	return b.String()
}

// scalar converts a decoded element into a Value. ok is false for nested
// lists and objects, which are not valid list elements.
func scalar(raw any) (v Value, ok bool) {
	switch x := raw.(type) {
	case nil:
		return Null(), true
	case bool:
		return Bool(x), true
	case string:
		return String(x), true
	case json.Number:
		n, err := Number(x.String())
		if err != nil {
			return String(x.String()), true
		}
		return n, true
	case int:
		return Int(int64(x)), true
	case int64:
		return Int(x), true
	case uint64:
		if x > math.MaxInt64 {
			return Float(float64(x)), true
		}
		return Int(int64(x)), true
	case float64:
		return Float(x), true
	case time.Time:
		return String(x.Format(time.RFC3339Nano)), true
	default:
		return Value{}, false
	}
}

// describe names the shape of a rejected element for error messages.
func describe(raw any) string {
	switch raw.(type) {
	case []any, []map[string]any:
		return "list"
	case map[string]any, map[any]any:
		return "object"
	case nil:
		return "null"
	default:
		return "scalar"
	}
}
