// ABOUTME: Closed set of value type tags with a per-kind dispatch table
// ABOUTME: Validation, tolerant string parsing, JSON conversion and equality

package property

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ValueType tags the payload carried by a Value
type ValueType uint8

const (
	TypeString ValueType = iota + 1
	TypeLong
	TypeDouble
	TypeBoolean
	TypeReference
	TypeBinaryReference
	TypeGeoPoint
	TypeLocalDate
	TypeLocalTime
	TypeLocalDateTime
	TypeInstant
	TypeLink
	// TypeData carries a nested *PropertySet
	TypeData
)

// typeOps holds the behaviour of one value type. Payloads handed to
// format, toJSON and equal are never nil.
type typeOps struct {
	tag      string
	valid    func(any) bool
	parse    func(string) (any, bool)
	format   func(any) string
	toJSON   func(any) any
	fromJSON func(any) (any, error)
	equal    func(a, b any) bool
}

var typeTable [TypeData + 1]typeOps

func init() {
	typeTable = [TypeData + 1]typeOps{
		TypeString: {
			tag:      "String",
			valid:    isA[string],
			parse:    func(s string) (any, bool) { return s, true },
			format:   func(v any) string { return v.(string) },
			toJSON:   identity,
			fromJSON: stringFromJSON(func(s string) any { return s }),
			equal:    primitiveEquals,
		},
		TypeLong: {
			tag:   "Long",
			valid: isA[int64],
			parse: func(s string) (any, bool) {
				n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
				return n, err == nil
			},
			format:   func(v any) string { return strconv.FormatInt(v.(int64), 10) },
			toJSON:   identity,
			fromJSON: longFromJSON,
			equal:    primitiveEquals,
		},
		TypeDouble: {
			tag: "Double",
			valid: func(v any) bool {
				f, ok := v.(float64)
				return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
			},
			parse: func(s string) (any, bool) {
				f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
			},
			format:   func(v any) string { return strconv.FormatFloat(v.(float64), 'g', -1, 64) },
			toJSON:   identity,
			fromJSON: doubleFromJSON,
			equal:    primitiveEquals,
		},
		TypeBoolean: {
			tag:   "Boolean",
			valid: isA[bool],
			parse: func(s string) (any, bool) {
				switch strings.ToLower(strings.TrimSpace(s)) {
				case "true":
					return true, true
				case "false":
					return false, true
				}
				return nil, false
			},
			format:   func(v any) string { return strconv.FormatBool(v.(bool)) },
			toJSON:   identity,
			fromJSON: booleanFromJSON,
			equal:    primitiveEquals,
		},
		TypeReference: {
			tag:      "Reference",
			valid:    isA[Reference],
			parse:    nonBlank(func(s string) any { return Reference(s) }),
			format:   func(v any) string { return string(v.(Reference)) },
			toJSON:   func(v any) any { return string(v.(Reference)) },
			fromJSON: stringFromJSON(func(s string) any { return Reference(s) }),
			equal:    primitiveEquals,
		},
		TypeBinaryReference: {
			tag:      "BinaryReference",
			valid:    isA[BinaryReference],
			parse:    nonBlank(func(s string) any { return BinaryReference(s) }),
			format:   func(v any) string { return string(v.(BinaryReference)) },
			toJSON:   func(v any) any { return string(v.(BinaryReference)) },
			fromJSON: stringFromJSON(func(s string) any { return BinaryReference(s) }),
			equal:    primitiveEquals,
		},
		TypeGeoPoint: {
			tag: "GeoPoint",
			valid: func(v any) bool {
				g, ok := v.(GeoPoint)
				return ok && g.IsValid()
			},
			parse:    parser(ParseGeoPoint),
			format:   stringer,
			toJSON:   func(v any) any { return v.(GeoPoint).String() },
			fromJSON: parsedFromJSON(ParseGeoPoint),
			equal:    primitiveEquals,
		},
		TypeLocalDate: {
			tag: "LocalDate",
			valid: func(v any) bool {
				d, ok := v.(LocalDate)
				return ok && d.IsValid()
			},
			parse:    parser(ParseLocalDate),
			format:   stringer,
			toJSON:   func(v any) any { return stringer(v) },
			fromJSON: timeFromJSON(ParseLocalDate, func(t time.Time) (LocalDate, bool) {
				d := LocalDateOf(t)
				return d, d.IsValid() && t.Equal(d.In(t.Location()))
			}),
			equal:    canonicalEquals,
		},
		TypeLocalTime: {
			tag: "LocalTime",
			valid: func(v any) bool {
				t, ok := v.(LocalTime)
				return ok && t.IsValid()
			},
			parse:    parser(ParseLocalTime),
			format:   stringer,
			toJSON:   func(v any) any { return stringer(v) },
			fromJSON: parsedFromJSON(ParseLocalTime),
			equal:    canonicalEquals,
		},
		TypeLocalDateTime: {
			tag: "LocalDateTime",
			valid: func(v any) bool {
				dt, ok := v.(LocalDateTime)
				return ok && dt.IsValid()
			},
			parse:    parser(ParseLocalDateTime),
			format:   stringer,
			toJSON:   func(v any) any { return stringer(v) },
			fromJSON: timeFromJSON(ParseLocalDateTime, func(t time.Time) (LocalDateTime, bool) {
				dt := LocalDateTimeOf(t)
				return dt, dt.IsValid()
			}),
			equal:    canonicalEquals,
		},
		TypeInstant: {
			tag:      "Instant",
			valid: func(v any) bool {
				t, ok := v.(time.Time)
				return ok && instantInRange(t)
			},
			parse:    parser(ParseInstant),
			format:   func(v any) string { return FormatInstant(v.(time.Time)) },
			toJSON:   func(v any) any { return FormatInstant(v.(time.Time)) },
			fromJSON: timeFromJSON(ParseInstant, func(t time.Time) (time.Time, bool) {
				return t.UTC(), instantInRange(t)
			}),
			equal: func(a, b any) bool {
				return FormatInstant(a.(time.Time)) == FormatInstant(b.(time.Time))
			},
		},
		TypeLink: {
			tag:      "Link",
			valid:    isA[Link],
			parse:    nonBlank(func(s string) any { return Link(s) }),
			format:   func(v any) string { return string(v.(Link)) },
			toJSON:   func(v any) any { return string(v.(Link)) },
			fromJSON: stringFromJSON(func(s string) any { return Link(s) }),
			equal:    primitiveEquals,
		},
		TypeData: {
			tag:   "PropertySet",
			valid: isA[*PropertySet],
			// Sets have no textual form; parsing always yields the null value.
			parse:    func(string) (any, bool) { return nil, false },
			format:   func(any) string { return "" },
			toJSON:   func(any) any { return nil },
			fromJSON: func(any) (any, error) { return nil, fmt.Errorf("%w: sets are decoded from nested arrays", ErrInvalidValue) },
			equal: func(a, b any) bool {
				return a.(*PropertySet).Equals(b.(*PropertySet))
			},
		},
	}
}

// AllValueTypes lists every type in declaration order
func AllValueTypes() []ValueType {
	types := make([]ValueType, 0, int(TypeData))
	for t := TypeString; t <= TypeData; t++ {
		types = append(types, t)
	}
	return types
}

// ParseValueType resolves a wire tag such as "String" or "PropertySet"
func ParseValueType(tag string) (ValueType, error) {
	for t := TypeString; t <= TypeData; t++ {
		if typeTable[t].tag == tag {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, tag)
}

// Valid reports whether t is one of the declared types
func (t ValueType) Valid() bool {
	return t >= TypeString && t <= TypeData
}

func (t ValueType) ops() *typeOps {
	if !t.Valid() {
		panic(fmt.Sprintf("property: unknown value type %d", t))
	}
	return &typeTable[t]
}

// String returns the wire tag
func (t ValueType) String() string {
	if !t.Valid() {
		return "ValueType(" + strconv.Itoa(int(t)) + ")"
	}
	return typeTable[t].tag
}

// IsNumeric reports Long and Double
func (t ValueType) IsNumeric() bool {
	return t == TypeLong || t == TypeDouble
}

// IsValid reports whether payload may be carried by a value of this type
func (t ValueType) IsValid(payload any) bool {
	return payload != nil && t.ops().valid(payload)
}

// IsConvertible reports whether raw parses into a non-null value of this type
func (t ValueType) IsConvertible(raw string) bool {
	if raw == "" && t != TypeString {
		return false
	}
	_, ok := t.ops().parse(raw)
	return ok
}

// NewValue parses raw tolerantly: unparseable input yields the typed null value
func (t ValueType) NewValue(raw string) Value {
	if raw == "" && t != TypeString {
		return t.NewNullValue()
	}
	payload, ok := t.ops().parse(raw)
	if !ok {
		return t.NewNullValue()
	}
	return Value{typ: t, data: payload}
}

// NewNullValue returns the null value of this type
func (t ValueType) NewNullValue() Value {
	return Value{typ: t}
}

// ValueEquals compares two values of this type
func (t ValueType) ValueEquals(a, b Value) bool {
	if a.typ != t || b.typ != t {
		return false
	}
	if t.IsNumeric() {
		// two null numbers are equal
		if a.data == nil && b.data == nil {
			return true
		}
	}
	if !bothDefinedOrBothNull(a.data, b.data) {
		return false
	}
	if a.data == nil {
		return true
	}
	return t.ops().equal(a.data, b.data)
}

// ValueToString renders the canonical textual form; null renders as ""
func (t ValueType) ValueToString(v Value) string {
	if v.data == nil {
		return ""
	}
	return t.ops().format(v.data)
}

// ToJSONValue converts a value to its JSON scalar form
func (t ValueType) ToJSONValue(v Value) any {
	if v.data == nil {
		return nil
	}
	return t.ops().toJSON(v.data)
}

// FromJSONValue converts a decoded JSON scalar; nil yields the typed null
func (t ValueType) FromJSONValue(j any) (Value, error) {
	if j == nil {
		return t.NewNullValue(), nil
	}
	payload, err := t.ops().fromJSON(j)
	if err != nil {
		return Value{}, err
	}
	return NewValue(t, payload)
}

// MarshalText implements encoding.TextMarshaler
func (t ValueType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *ValueType) UnmarshalText(text []byte) error {
	parsed, err := ParseValueType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func bothDefinedOrBothNull(a, b any) bool {
	return (a == nil) == (b == nil)
}

func isA[T any](v any) bool {
	_, ok := v.(T)
	return ok
}

func identity(v any) any { return v }

func stringer(v any) string { return v.(fmt.Stringer).String() }

func primitiveEquals(a, b any) bool { return a == b }

func canonicalEquals(a, b any) bool { return stringer(a) == stringer(b) }

func nonBlank(mk func(string) any) func(string) (any, bool) {
	return func(s string) (any, bool) {
		if strings.TrimSpace(s) == "" {
			return nil, false
		}
		return mk(s), true
	}
}

func parser[T any](parse func(string) (T, error)) func(string) (any, bool) {
	return func(s string) (any, bool) {
		v, err := parse(s)
		if err != nil {
			return nil, false
		}
		return v, true
	}
}

func stringFromJSON(mk func(string) any) func(any) (any, error) {
	return func(j any) (any, error) {
		s, ok := j.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, j)
		}
		return mk(s), nil
	}
}

func parsedFromJSON[T any](parse func(string) (T, error)) func(any) (any, error) {
	return func(j any) (any, error) {
		s, ok := j.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, j)
		}
		v, err := parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		return v, nil
	}
}

// timeFromJSON also takes the time.Time that YAML decoders produce for
// unquoted timestamps
func timeFromJSON[T any](parse func(string) (T, error), fromTime func(time.Time) (T, bool)) func(any) (any, error) {
	fromString := parsedFromJSON(parse)
	return func(j any) (any, error) {
		t, ok := j.(time.Time)
		if !ok {
			return fromString(j)
		}
		v, ok := fromTime(t)
		if !ok {
			return nil, fmt.Errorf("%w: timestamp %s does not fit", ErrInvalidValue, t.Format(time.RFC3339Nano))
		}
		return v, nil
	}
}

func longFromJSON(j any) (any, error) {
	switch n := j.(type) {
	case json.Number:
		v, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		return v, nil
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", ErrInvalidValue, n)
		}
		return int64(n), nil
	case string:
		v, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, j)
}

func doubleFromJSON(j any) (any, error) {
	switch n := j.(type) {
	case json.Number:
		v, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		return v, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, j)
}

func booleanFromJSON(j any) (any, error) {
	switch b := j.(type) {
	case bool:
		return b, nil
	case string:
		v, err := strconv.ParseBool(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: expected boolean, got %T", ErrInvalidValue, j)
}
