// ABOUTME: Conversion matrix between value types
// ABOUTME: Used to re-interpret an existing array's values in place

package property

import (
	"math"
	"time"
)

// Converter turns a value into one of the target type
type Converter func(v Value, to ValueType) Value

// ConvertValue is the default conversion matrix. It never fails: a value
// that has no representation in the target type becomes the target's null.
func ConvertValue(v Value, to ValueType) Value {
	if v.typ == to {
		return v
	}
	if v.IsNull() || v.typ == TypeData || to == TypeData {
		return to.NewNullValue()
	}

	switch to {
	case TypeString:
		return StringValue(v.String())
	case TypeLong:
		switch d := v.data.(type) {
		case bool:
			if d {
				return LongValue(1)
			}
			return LongValue(0)
		case float64:
			if d >= math.MinInt64 && d < math.MaxInt64 {
				return LongValue(int64(d))
			}
			return to.NewNullValue()
		case time.Time:
			return LongValue(d.UnixMilli())
		}
	case TypeDouble:
		switch d := v.data.(type) {
		case bool:
			if d {
				return DoubleValue(1)
			}
			return DoubleValue(0)
		case int64:
			return DoubleValue(float64(d))
		}
	case TypeBoolean:
		switch d := v.data.(type) {
		case int64:
			return BooleanValue(d != 0)
		case float64:
			return BooleanValue(d != 0)
		}
	case TypeLocalDate:
		switch d := v.data.(type) {
		case time.Time:
			return LocalDateValue(LocalDateOf(d))
		case LocalDateTime:
			return LocalDateValue(d.Date)
		}
	case TypeLocalTime:
		switch d := v.data.(type) {
		case time.Time:
			return LocalTimeValue(LocalTimeOf(d))
		case LocalDateTime:
			return LocalTimeValue(d.Time)
		}
	case TypeLocalDateTime:
		switch d := v.data.(type) {
		case time.Time:
			return LocalDateTimeValue(LocalDateTimeOf(d))
		case LocalDate:
			return LocalDateTimeValue(LocalDateTime{Date: d})
		}
	case TypeInstant:
		switch d := v.data.(type) {
		case LocalDateTime:
			return InstantValue(d.In(time.UTC))
		case LocalDate:
			return InstantValue(d.In(time.UTC))
		case int64:
			if t := time.UnixMilli(d); instantInRange(t) {
				return InstantValue(t)
			}
			return to.NewNullValue()
		}
	}

	return to.NewValue(v.String())
}

// Convert re-interprets p as type to. An attached property converts its
// whole array so that name and type stay homogeneous.
func (p *Property) Convert(to ValueType) error {
	if p.array != nil {
		return p.array.ConvertValues(to, nil)
	}
	if !to.Valid() {
		return ErrUnknownType
	}
	p.value = ConvertValue(p.value, to)
	return nil
}
