// ABOUTME: Tests for value types, typed values and conversion
// ABOUTME: Covers validation, tolerant parsing, equality rules and the converter

package property

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseValueType(t *testing.T) {
	for _, vt := range AllValueTypes() {
		parsed, err := ParseValueType(vt.String())
		if err != nil {
			t.Errorf("Failed to parse %s: %v", vt, err)
			continue
		}
		if parsed != vt {
			t.Errorf("Expected %s, got %s", vt, parsed)
		}
	}
	if TypeData.String() != "PropertySet" {
		t.Errorf("Expected composite tag PropertySet, got %s", TypeData)
	}
	if _, err := ParseValueType("Decimal"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Expected ErrUnknownType, got %v", err)
	}
}

func TestNewValueRejectsInvalidPayloads(t *testing.T) {
	tests := []struct {
		name    string
		typ     ValueType
		payload any
	}{
		{"wrong go type", TypeLong, "12"},
		{"NaN", TypeDouble, math.NaN()},
		{"infinity", TypeDouble, math.Inf(1)},
		{"latitude out of range", TypeGeoPoint, GeoPoint{Latitude: 91}},
		{"february 30", TypeLocalDate, LocalDate{Year: 2024, Month: time.February, Day: 30}},
		{"hour 24", TypeLocalTime, LocalTime{Hour: 24}},
		{"five digit year", TypeLocalDate, LocalDate{Year: 12000, Month: time.January, Day: 1}},
		{"negative year", TypeLocalDate, LocalDate{Year: -1, Month: time.January, Day: 1}},
		{"five digit year date time", TypeLocalDateTime, LocalDateTime{Date: LocalDate{Year: 10000, Month: time.January, Day: 1}}},
		{"five digit year instant", TypeInstant, time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"string as set", TypeData, "set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewValue(tt.typ, tt.payload)
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("Expected ErrInvalidValue, got %v", err)
			}
			var ve *ValueError
			if !errors.As(err, &ve) || ve.Type != tt.typ {
				t.Errorf("Expected a ValueError for %s, got %v", tt.typ, err)
			}
		})
	}
}

func TestMustValuePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected DoubleValue(NaN) to panic")
		}
	}()
	DoubleValue(math.NaN())
}

func TestNullValuesKeepTheirType(t *testing.T) {
	v, err := NewValue(TypeLong, nil)
	if err != nil {
		t.Fatalf("Failed to create null: %v", err)
	}
	if !v.IsNull() || v.Type() != TypeLong {
		t.Errorf("Expected null Long, got %v of %s", v.Payload(), v.Type())
	}

	var set *PropertySet
	if d := DataValue(set); !d.IsNull() || d.Type() != TypeData {
		t.Error("Expected typed nil set to give a null composite value")
	}
	if v.Equal(NullValue(TypeString)) {
		t.Error("Expected nulls of different types to differ")
	}
}

func TestTolerantParse(t *testing.T) {
	tests := []struct {
		typ  ValueType
		raw  string
		null bool
		want string
	}{
		{TypeString, "", false, ""},
		{TypeLong, "", true, ""},
		{TypeLong, "abc", true, ""},
		{TypeLong, " 42 ", false, "42"},
		{TypeDouble, "1.5", false, "1.5"},
		{TypeDouble, "NaN", true, ""},
		{TypeBoolean, "TRUE", false, "true"},
		{TypeBoolean, "yes", true, ""},
		{TypeGeoPoint, "59.9, 10.7", false, "59.9,10.7"},
		{TypeGeoPoint, "200,0", true, ""},
		{TypeLocalDate, "2024-02-29", false, "2024-02-29"},
		{TypeLocalDate, "2023-02-29", true, ""},
		{TypeLocalTime, "09:15", false, "09:15:00"},
		{TypeLocalDateTime, "2024-01-02T10:30", false, "2024-01-02T10:30:00"},
		{TypeInstant, "2024-01-02T10:30:00+02:00", false, "2024-01-02T08:30:00Z"},
		{TypeReference, "  ", true, ""},
		{TypeLink, "/content/a", false, "/content/a"},
		{TypeData, "anything", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.raw, func(t *testing.T) {
			v := tt.typ.NewValue(tt.raw)
			if v.Type() != tt.typ {
				t.Errorf("Expected type %s, got %s", tt.typ, v.Type())
			}
			if v.IsNull() != tt.null {
				t.Fatalf("Expected null=%v, got %v", tt.null, v.IsNull())
			}
			if got := v.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if tt.typ != TypeString && tt.typ.IsConvertible(tt.raw) == tt.null {
				t.Errorf("Expected IsConvertible=%v", !tt.null)
			}
		})
	}
}

func TestValueEquality(t *testing.T) {
	utc := time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)
	oslo := utc.In(time.FixedZone("CET", 3600))

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same string", StringValue("a"), StringValue("a"), true},
		{"different string", StringValue("a"), StringValue("b"), false},
		{"null numbers", NullValue(TypeLong), NullValue(TypeLong), true},
		{"null doubles", NullValue(TypeDouble), NullValue(TypeDouble), true},
		{"null and defined", NullValue(TypeString), StringValue(""), false},
		{"null strings", NullValue(TypeString), NullValue(TypeString), true},
		{"long and double", LongValue(1), DoubleValue(1), false},
		{"instant across zones", InstantValue(utc), InstantValue(oslo), true},
		{"dates", LocalDateValue(LocalDate{2024, time.March, 1}), TypeLocalDate.NewValue("2024-03-01"), true},
		{"geo points", GeoPointValue(GeoPoint{1, 2}), TypeGeoPoint.NewValue("1,2"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSetValuesCompareStructurally(t *testing.T) {
	tree := NewTree()
	a := tree.NewSet()
	a.AddString("k", "v")
	b := tree.NewSet()
	b.AddString("k", "v")

	if !DataValue(a).Equal(DataValue(b)) {
		t.Error("Expected sets with equal content to be equal values")
	}
	b.AddString("k", "w")
	if DataValue(a).Equal(DataValue(b)) {
		t.Error("Expected differing sets to be unequal")
	}
}

func TestInstantIsNormalizedToUTC(t *testing.T) {
	local := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 7200))
	v := InstantValue(local)

	got, _ := v.AsInstant()
	if got.Location() != time.UTC {
		t.Errorf("Expected UTC, got %s", got.Location())
	}
	if v.String() != "2024-06-01T10:00:00Z" {
		t.Errorf("Unexpected instant text: %s", v.String())
	}
}

func TestAccessorsRejectFiveDigitYears(t *testing.T) {
	tree := NewTree()
	far := time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := tree.AddInstant("at", far); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue from AddInstant, got %v", err)
	}
	if _, err := tree.SetInstant("at", far); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue from SetInstant, got %v", err)
	}
	if _, err := tree.AddLocalDate("day", LocalDateOf(far)); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue from AddLocalDate, got %v", err)
	}
	if tree.Size() != 0 {
		t.Errorf("Expected no properties, got %d", tree.Size())
	}
}

func TestTypedAccessorsRejectOtherTypes(t *testing.T) {
	v := LongValue(3)
	if _, ok := v.AsString(); ok {
		t.Error("Expected AsString to fail on a Long")
	}
	if n, ok := v.AsLong(); !ok || n != 3 {
		t.Errorf("Expected 3, got %d", n)
	}
	if _, ok := NullValue(TypeLong).AsLong(); ok {
		t.Error("Expected AsLong to fail on null")
	}
}

func TestConvertValue(t *testing.T) {
	instant := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		in   Value
		to   ValueType
		want Value
	}{
		{"same type", StringValue("x"), TypeString, StringValue("x")},
		{"long to string", LongValue(12), TypeString, StringValue("12")},
		{"string to long", StringValue("12"), TypeLong, LongValue(12)},
		{"bad string to long", StringValue("twelve"), TypeLong, NullValue(TypeLong)},
		{"true to long", BooleanValue(true), TypeLong, LongValue(1)},
		{"double to long", DoubleValue(2.9), TypeLong, LongValue(2)},
		{"huge double to long", DoubleValue(1e19), TypeLong, NullValue(TypeLong)},
		{"huge negative double to long", DoubleValue(-1e19), TypeLong, NullValue(TypeLong)},
		{"two to the 63 to long", DoubleValue(math.Exp2(63)), TypeLong, NullValue(TypeLong)},
		{"min long from double", DoubleValue(-math.Exp2(63)), TypeLong, LongValue(math.MinInt64)},
		{"far millis to instant", LongValue(math.MaxInt64), TypeInstant, NullValue(TypeInstant)},
		{"long to double", LongValue(2), TypeDouble, DoubleValue(2)},
		{"zero to boolean", LongValue(0), TypeBoolean, BooleanValue(false)},
		{"instant to millis", InstantValue(instant), TypeLong, LongValue(instant.UnixMilli())},
		{"millis to instant", LongValue(instant.UnixMilli()), TypeInstant, InstantValue(instant)},
		{"instant to date", InstantValue(instant), TypeLocalDate, LocalDateValue(LocalDate{2024, time.January, 2})},
		{"date to date time", LocalDateValue(LocalDate{2024, time.January, 2}), TypeLocalDateTime,
			LocalDateTimeValue(LocalDateTime{Date: LocalDate{2024, time.January, 2}})},
		{"null stays null", NullValue(TypeLong), TypeString, NullValue(TypeString)},
		{"string to set", StringValue("x"), TypeData, NullValue(TypeData)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertValue(tt.in, tt.to)
			if !got.Equal(tt.want) {
				t.Errorf("Expected %s %q, got %s %q", tt.want.Type(), tt.want, got.Type(), got)
			}
		})
	}
}

func TestValueTypeTextRoundTrip(t *testing.T) {
	text, err := TypeGeoPoint.MarshalText()
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var vt ValueType
	if err := vt.UnmarshalText(text); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if vt != TypeGeoPoint {
		t.Errorf("Expected GeoPoint, got %s", vt)
	}
	if _, err := ValueType(0).MarshalText(); err == nil {
		t.Error("Expected error for the zero type")
	}
}
