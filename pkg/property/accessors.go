// ABOUTME: Typed convenience accessors on PropertySet
// ABOUTME: Add by name, set and get by path reference, list all by name

package property

import "time"

func getAs[T any](s *PropertySet, ref string, t ValueType) (T, bool) {
	p := s.mustLookup(ref)
	if p == nil {
		var zero T
		return zero, false
	}
	return as[T](p.value, t)
}

// getAllAs returns the non-null payloads of the array called name
func getAllAs[T any](s *PropertySet, name string, t ValueType) []T {
	a := s.GetPropertyArray(name)
	if a == nil || a.typ != t {
		return nil
	}
	out := make([]T, 0, len(a.props))
	for _, p := range a.props {
		if v, ok := as[T](p.value, t); ok {
			out = append(out, v)
		}
	}
	return out
}

func addAll[T any](s *PropertySet, name string, mk func(T) Value, vs []T) ([]*Property, error) {
	out := make([]*Property, 0, len(vs))
	for _, v := range vs {
		p, err := s.AddProperty(name, mk(v))
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *PropertySet) AddString(name, v string) (*Property, error) {
	return s.AddProperty(name, StringValue(v))
}

func (s *PropertySet) AddStrings(name string, vs ...string) ([]*Property, error) {
	return addAll(s, name, StringValue, vs)
}

func (s *PropertySet) SetString(ref, v string) (*Property, error) {
	return s.SetPropertyByString(ref, StringValue(v))
}

func (s *PropertySet) GetString(ref string) (string, bool) {
	return getAs[string](s, ref, TypeString)
}

func (s *PropertySet) GetStrings(name string) []string {
	return getAllAs[string](s, name, TypeString)
}

func (s *PropertySet) AddLong(name string, v int64) (*Property, error) {
	return s.AddProperty(name, LongValue(v))
}

func (s *PropertySet) AddLongs(name string, vs ...int64) ([]*Property, error) {
	return addAll(s, name, LongValue, vs)
}

func (s *PropertySet) SetLong(ref string, v int64) (*Property, error) {
	return s.SetPropertyByString(ref, LongValue(v))
}

func (s *PropertySet) GetLong(ref string) (int64, bool) {
	return getAs[int64](s, ref, TypeLong)
}

func (s *PropertySet) GetLongs(name string) []int64 {
	return getAllAs[int64](s, name, TypeLong)
}

func (s *PropertySet) AddDouble(name string, v float64) (*Property, error) {
	val, err := NewValue(TypeDouble, v)
	if err != nil {
		return nil, err
	}
	return s.AddProperty(name, val)
}

func (s *PropertySet) SetDouble(ref string, v float64) (*Property, error) {
	val, err := NewValue(TypeDouble, v)
	if err != nil {
		return nil, err
	}
	return s.SetPropertyByString(ref, val)
}

func (s *PropertySet) GetDouble(ref string) (float64, bool) {
	return getAs[float64](s, ref, TypeDouble)
}

func (s *PropertySet) GetDoubles(name string) []float64 {
	return getAllAs[float64](s, name, TypeDouble)
}

func (s *PropertySet) AddBoolean(name string, v bool) (*Property, error) {
	return s.AddProperty(name, BooleanValue(v))
}

func (s *PropertySet) SetBoolean(ref string, v bool) (*Property, error) {
	return s.SetPropertyByString(ref, BooleanValue(v))
}

func (s *PropertySet) GetBoolean(ref string) (bool, bool) {
	return getAs[bool](s, ref, TypeBoolean)
}

func (s *PropertySet) GetBooleans(name string) []bool {
	return getAllAs[bool](s, name, TypeBoolean)
}

func (s *PropertySet) AddReference(name string, v Reference) (*Property, error) {
	return s.AddProperty(name, ReferenceValue(v))
}

func (s *PropertySet) SetReference(ref string, v Reference) (*Property, error) {
	return s.SetPropertyByString(ref, ReferenceValue(v))
}

func (s *PropertySet) GetReference(ref string) (Reference, bool) {
	return getAs[Reference](s, ref, TypeReference)
}

func (s *PropertySet) GetReferences(name string) []Reference {
	return getAllAs[Reference](s, name, TypeReference)
}

func (s *PropertySet) AddBinaryReference(name string, v BinaryReference) (*Property, error) {
	return s.AddProperty(name, BinaryReferenceValue(v))
}

func (s *PropertySet) SetBinaryReference(ref string, v BinaryReference) (*Property, error) {
	return s.SetPropertyByString(ref, BinaryReferenceValue(v))
}

func (s *PropertySet) GetBinaryReference(ref string) (BinaryReference, bool) {
	return getAs[BinaryReference](s, ref, TypeBinaryReference)
}

func (s *PropertySet) GetBinaryReferences(name string) []BinaryReference {
	return getAllAs[BinaryReference](s, name, TypeBinaryReference)
}

func (s *PropertySet) AddGeoPoint(name string, v GeoPoint) (*Property, error) {
	val, err := NewValue(TypeGeoPoint, v)
	if err != nil {
		return nil, err
	}
	return s.AddProperty(name, val)
}

func (s *PropertySet) SetGeoPoint(ref string, v GeoPoint) (*Property, error) {
	val, err := NewValue(TypeGeoPoint, v)
	if err != nil {
		return nil, err
	}
	return s.SetPropertyByString(ref, val)
}

func (s *PropertySet) GetGeoPoint(ref string) (GeoPoint, bool) {
	return getAs[GeoPoint](s, ref, TypeGeoPoint)
}

func (s *PropertySet) GetGeoPoints(name string) []GeoPoint {
	return getAllAs[GeoPoint](s, name, TypeGeoPoint)
}

func (s *PropertySet) AddLocalDate(name string, v LocalDate) (*Property, error) {
	val, err := NewValue(TypeLocalDate, v)
	if err != nil {
		return nil, err
	}
	return s.AddProperty(name, val)
}

func (s *PropertySet) SetLocalDate(ref string, v LocalDate) (*Property, error) {
	val, err := NewValue(TypeLocalDate, v)
	if err != nil {
		return nil, err
	}
	return s.SetPropertyByString(ref, val)
}

func (s *PropertySet) GetLocalDate(ref string) (LocalDate, bool) {
	return getAs[LocalDate](s, ref, TypeLocalDate)
}

func (s *PropertySet) GetLocalDates(name string) []LocalDate {
	return getAllAs[LocalDate](s, name, TypeLocalDate)
}

func (s *PropertySet) AddLocalTime(name string, v LocalTime) (*Property, error) {
	val, err := NewValue(TypeLocalTime, v)
	if err != nil {
		return nil, err
	}
	return s.AddProperty(name, val)
}

func (s *PropertySet) SetLocalTime(ref string, v LocalTime) (*Property, error) {
	val, err := NewValue(TypeLocalTime, v)
	if err != nil {
		return nil, err
	}
	return s.SetPropertyByString(ref, val)
}

func (s *PropertySet) GetLocalTime(ref string) (LocalTime, bool) {
	return getAs[LocalTime](s, ref, TypeLocalTime)
}

func (s *PropertySet) GetLocalTimes(name string) []LocalTime {
	return getAllAs[LocalTime](s, name, TypeLocalTime)
}

func (s *PropertySet) AddLocalDateTime(name string, v LocalDateTime) (*Property, error) {
	val, err := NewValue(TypeLocalDateTime, v)
	if err != nil {
		return nil, err
	}
	return s.AddProperty(name, val)
}

func (s *PropertySet) SetLocalDateTime(ref string, v LocalDateTime) (*Property, error) {
	val, err := NewValue(TypeLocalDateTime, v)
	if err != nil {
		return nil, err
	}
	return s.SetPropertyByString(ref, val)
}

func (s *PropertySet) GetLocalDateTime(ref string) (LocalDateTime, bool) {
	return getAs[LocalDateTime](s, ref, TypeLocalDateTime)
}

func (s *PropertySet) GetLocalDateTimes(name string) []LocalDateTime {
	return getAllAs[LocalDateTime](s, name, TypeLocalDateTime)
}

func (s *PropertySet) AddInstant(name string, v time.Time) (*Property, error) {
	val, err := NewValue(TypeInstant, v)
	if err != nil {
		return nil, err
	}
	return s.AddProperty(name, val)
}

func (s *PropertySet) SetInstant(ref string, v time.Time) (*Property, error) {
	val, err := NewValue(TypeInstant, v)
	if err != nil {
		return nil, err
	}
	return s.SetPropertyByString(ref, val)
}

func (s *PropertySet) GetInstant(ref string) (time.Time, bool) {
	return getAs[time.Time](s, ref, TypeInstant)
}

func (s *PropertySet) GetInstants(name string) []time.Time {
	return getAllAs[time.Time](s, name, TypeInstant)
}

func (s *PropertySet) AddLink(name string, v Link) (*Property, error) {
	return s.AddProperty(name, LinkValue(v))
}

func (s *PropertySet) SetLink(ref string, v Link) (*Property, error) {
	return s.SetPropertyByString(ref, LinkValue(v))
}

func (s *PropertySet) GetLink(ref string) (Link, bool) {
	return getAs[Link](s, ref, TypeLink)
}

func (s *PropertySet) GetLinks(name string) []Link {
	return getAllAs[Link](s, name, TypeLink)
}
