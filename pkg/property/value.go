// ABOUTME: Immutable pairing of a payload with its value type
// ABOUTME: Null values keep their declared type

package property

import (
	"fmt"
	"time"
)

// Value is a typed payload. The zero Value has no type and is only
// returned alongside an error.
type Value struct {
	typ  ValueType
	data any
}

// NewValue validates payload against t. A nil payload gives the typed null.
func NewValue(t ValueType, payload any) (Value, error) {
	if !t.Valid() {
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if payload == nil {
		return t.NewNullValue(), nil
	}
	if set, ok := payload.(*PropertySet); ok && set == nil {
		return t.NewNullValue(), nil
	}
	if ts, ok := payload.(time.Time); ok && t == TypeInstant {
		payload = ts.UTC()
	}
	if !t.IsValid(payload) {
		return Value{}, &ValueError{Type: t, Payload: payload}
	}
	return Value{typ: t, data: payload}, nil
}

// MustValue is like NewValue but panics on an invalid payload
func MustValue(t ValueType, payload any) Value {
	v, err := NewValue(t, payload)
	if err != nil {
		panic(err)
	}
	return v
}

// NullValue returns the null value of t
func NullValue(t ValueType) Value {
	return t.NewNullValue()
}

func StringValue(s string) Value                   { return Value{typ: TypeString, data: s} }
func LongValue(n int64) Value                      { return Value{typ: TypeLong, data: n} }
func BooleanValue(b bool) Value                    { return Value{typ: TypeBoolean, data: b} }
func ReferenceValue(r Reference) Value             { return Value{typ: TypeReference, data: r} }
func BinaryReferenceValue(b BinaryReference) Value { return Value{typ: TypeBinaryReference, data: b} }
func LinkValue(l Link) Value                       { return Value{typ: TypeLink, data: l} }

// InstantValue panics outside years 0000 to 9999 UTC
func InstantValue(t time.Time) Value { return MustValue(TypeInstant, t) }

// DoubleValue panics on NaN or infinities
func DoubleValue(f float64) Value { return MustValue(TypeDouble, f) }

// GeoPointValue panics on out-of-range coordinates
func GeoPointValue(g GeoPoint) Value { return MustValue(TypeGeoPoint, g) }

// LocalDateValue panics on a date missing from the calendar
func LocalDateValue(d LocalDate) Value { return MustValue(TypeLocalDate, d) }

// LocalTimeValue panics on out-of-range fields
func LocalTimeValue(t LocalTime) Value { return MustValue(TypeLocalTime, t) }

// LocalDateTimeValue panics on invalid date or time parts
func LocalDateTimeValue(dt LocalDateTime) Value { return MustValue(TypeLocalDateTime, dt) }

// DataValue wraps a set; a nil set gives the null composite value
func DataValue(set *PropertySet) Value {
	if set == nil {
		return NullValue(TypeData)
	}
	return Value{typ: TypeData, data: set}
}

// Type returns the declared type
func (v Value) Type() ValueType { return v.typ }

// IsNull reports a missing payload
func (v Value) IsNull() bool { return v.data == nil }

// IsPropertySet reports a composite value, null or not
func (v Value) IsPropertySet() bool { return v.typ == TypeData }

// Payload returns the raw payload, nil for null values
func (v Value) Payload() any { return v.data }

// Equal compares type and payload per the type's equality rule
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ || !v.typ.Valid() {
		return false
	}
	return v.typ.ValueEquals(v, other)
}

// String renders the canonical textual form
func (v Value) String() string {
	if !v.typ.Valid() {
		return ""
	}
	return v.typ.ValueToString(v)
}

// ToJSON returns the JSON scalar form; composite values give nil
func (v Value) ToJSON() any {
	if !v.typ.Valid() {
		return nil
	}
	return v.typ.ToJSONValue(v)
}

// isEmptyValue treats null, "", false and recursively empty sets as empty
func (v Value) isEmptyValue() bool {
	switch d := v.data.(type) {
	case nil:
		return true
	case string:
		return d == ""
	case bool:
		return !d
	case *PropertySet:
		return d.IsEmpty()
	}
	return false
}

func as[T any](v Value, t ValueType) (T, bool) {
	var zero T
	if v.typ != t || v.data == nil {
		return zero, false
	}
	d, ok := v.data.(T)
	return d, ok
}

func (v Value) AsString() (string, bool)                   { return as[string](v, TypeString) }
func (v Value) AsLong() (int64, bool)                      { return as[int64](v, TypeLong) }
func (v Value) AsDouble() (float64, bool)                  { return as[float64](v, TypeDouble) }
func (v Value) AsBoolean() (bool, bool)                    { return as[bool](v, TypeBoolean) }
func (v Value) AsReference() (Reference, bool)             { return as[Reference](v, TypeReference) }
func (v Value) AsBinaryReference() (BinaryReference, bool) { return as[BinaryReference](v, TypeBinaryReference) }
func (v Value) AsGeoPoint() (GeoPoint, bool)               { return as[GeoPoint](v, TypeGeoPoint) }
func (v Value) AsLocalDate() (LocalDate, bool)             { return as[LocalDate](v, TypeLocalDate) }
func (v Value) AsLocalTime() (LocalTime, bool)             { return as[LocalTime](v, TypeLocalTime) }
func (v Value) AsLocalDateTime() (LocalDateTime, bool)     { return as[LocalDateTime](v, TypeLocalDateTime) }
func (v Value) AsInstant() (time.Time, bool)               { return as[time.Time](v, TypeInstant) }
func (v Value) AsLink() (Link, bool)                       { return as[Link](v, TypeLink) }
func (v Value) AsPropertySet() (*PropertySet, bool)        { return as[*PropertySet](v, TypeData) }
