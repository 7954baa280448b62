package join

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Numeric is a JSON number that upstreams sometimes send as a string ("92.5").
// Anything that does not parse decodes to 0 instead of failing the whole payload.
type Numeric float64

func (n *Numeric) UnmarshalJSON(b []byte) error {
	*n = Numeric(parseLoose(b))
	return nil
}

func (n Numeric) Float() float64 { return float64(n) }

func (n Numeric) Int() int { return int(math.Round(float64(n))) }

// Int is a count or position with the same loose decoding as Numeric, rounded to the
// nearest integer.
type Int int

func (n *Int) UnmarshalJSON(b []byte) error {
	f := parseLoose(b)
	if f > math.MaxInt32 || f < math.MinInt32 {
		f = 0
	}
	*n = Int(math.Round(f))
	return nil
}

func (n Int) Int() int { return int(n) }

func parseLoose(b []byte) float64 {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0
		}
		return parseString(s)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func parseString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Float coerces a loosely typed value to float64. Unknown types and unparsable
// strings yield 0.
func Float(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case uint:
		return float64(t)
	case uint64:
		return float64(t)
	case Numeric:
		return finite(float64(t))
	case json.Number:
		return parseString(t.String())
	case string:
		return parseString(t)
	case []byte:
		return parseString(string(t))
	default:
		return 0
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Percent returns part/total*100 rounded to one decimal; 0 when total is 0.
func Percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return Round(part/total*100, 1)
}
