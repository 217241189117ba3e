// ABOUTME: Typed accessors on PropertyTree, delegating to the root set

package property

import "time"

func (t *PropertyTree) AddString(name, v string) (*Property, error) { return t.root.AddString(name, v) }
func (t *PropertyTree) AddStrings(name string, vs ...string) ([]*Property, error) {
	return t.root.AddStrings(name, vs...)
}
func (t *PropertyTree) SetString(ref, v string) (*Property, error) { return t.root.SetString(ref, v) }
func (t *PropertyTree) GetString(ref string) (string, bool)        { return t.root.GetString(ref) }
func (t *PropertyTree) GetStrings(name string) []string            { return t.root.GetStrings(name) }

func (t *PropertyTree) AddLong(name string, v int64) (*Property, error) { return t.root.AddLong(name, v) }
func (t *PropertyTree) AddLongs(name string, vs ...int64) ([]*Property, error) {
	return t.root.AddLongs(name, vs...)
}
func (t *PropertyTree) SetLong(ref string, v int64) (*Property, error) { return t.root.SetLong(ref, v) }
func (t *PropertyTree) GetLong(ref string) (int64, bool)               { return t.root.GetLong(ref) }
func (t *PropertyTree) GetLongs(name string) []int64                   { return t.root.GetLongs(name) }

func (t *PropertyTree) AddDouble(name string, v float64) (*Property, error) {
	return t.root.AddDouble(name, v)
}
func (t *PropertyTree) SetDouble(ref string, v float64) (*Property, error) {
	return t.root.SetDouble(ref, v)
}
func (t *PropertyTree) GetDouble(ref string) (float64, bool) { return t.root.GetDouble(ref) }
func (t *PropertyTree) GetDoubles(name string) []float64     { return t.root.GetDoubles(name) }

func (t *PropertyTree) AddBoolean(name string, v bool) (*Property, error) {
	return t.root.AddBoolean(name, v)
}
func (t *PropertyTree) SetBoolean(ref string, v bool) (*Property, error) {
	return t.root.SetBoolean(ref, v)
}
func (t *PropertyTree) GetBoolean(ref string) (bool, bool) { return t.root.GetBoolean(ref) }
func (t *PropertyTree) GetBooleans(name string) []bool     { return t.root.GetBooleans(name) }

func (t *PropertyTree) AddReference(name string, v Reference) (*Property, error) {
	return t.root.AddReference(name, v)
}
func (t *PropertyTree) SetReference(ref string, v Reference) (*Property, error) {
	return t.root.SetReference(ref, v)
}
func (t *PropertyTree) GetReference(ref string) (Reference, bool) { return t.root.GetReference(ref) }
func (t *PropertyTree) GetReferences(name string) []Reference     { return t.root.GetReferences(name) }

func (t *PropertyTree) AddBinaryReference(name string, v BinaryReference) (*Property, error) {
	return t.root.AddBinaryReference(name, v)
}
func (t *PropertyTree) SetBinaryReference(ref string, v BinaryReference) (*Property, error) {
	return t.root.SetBinaryReference(ref, v)
}
func (t *PropertyTree) GetBinaryReference(ref string) (BinaryReference, bool) {
	return t.root.GetBinaryReference(ref)
}
func (t *PropertyTree) GetBinaryReferences(name string) []BinaryReference {
	return t.root.GetBinaryReferences(name)
}

func (t *PropertyTree) AddGeoPoint(name string, v GeoPoint) (*Property, error) {
	return t.root.AddGeoPoint(name, v)
}
func (t *PropertyTree) SetGeoPoint(ref string, v GeoPoint) (*Property, error) {
	return t.root.SetGeoPoint(ref, v)
}
func (t *PropertyTree) GetGeoPoint(ref string) (GeoPoint, bool) { return t.root.GetGeoPoint(ref) }
func (t *PropertyTree) GetGeoPoints(name string) []GeoPoint     { return t.root.GetGeoPoints(name) }

func (t *PropertyTree) AddLocalDate(name string, v LocalDate) (*Property, error) {
	return t.root.AddLocalDate(name, v)
}
func (t *PropertyTree) SetLocalDate(ref string, v LocalDate) (*Property, error) {
	return t.root.SetLocalDate(ref, v)
}
func (t *PropertyTree) GetLocalDate(ref string) (LocalDate, bool) { return t.root.GetLocalDate(ref) }
func (t *PropertyTree) GetLocalDates(name string) []LocalDate     { return t.root.GetLocalDates(name) }

func (t *PropertyTree) AddLocalTime(name string, v LocalTime) (*Property, error) {
	return t.root.AddLocalTime(name, v)
}
func (t *PropertyTree) SetLocalTime(ref string, v LocalTime) (*Property, error) {
	return t.root.SetLocalTime(ref, v)
}
func (t *PropertyTree) GetLocalTime(ref string) (LocalTime, bool) { return t.root.GetLocalTime(ref) }
func (t *PropertyTree) GetLocalTimes(name string) []LocalTime     { return t.root.GetLocalTimes(name) }

func (t *PropertyTree) AddLocalDateTime(name string, v LocalDateTime) (*Property, error) {
	return t.root.AddLocalDateTime(name, v)
}
func (t *PropertyTree) SetLocalDateTime(ref string, v LocalDateTime) (*Property, error) {
	return t.root.SetLocalDateTime(ref, v)
}
func (t *PropertyTree) GetLocalDateTime(ref string) (LocalDateTime, bool) {
	return t.root.GetLocalDateTime(ref)
}
func (t *PropertyTree) GetLocalDateTimes(name string) []LocalDateTime {
	return t.root.GetLocalDateTimes(name)
}

func (t *PropertyTree) AddInstant(name string, v time.Time) (*Property, error) {
	return t.root.AddInstant(name, v)
}
func (t *PropertyTree) SetInstant(ref string, v time.Time) (*Property, error) {
	return t.root.SetInstant(ref, v)
}
func (t *PropertyTree) GetInstant(ref string) (time.Time, bool) { return t.root.GetInstant(ref) }
func (t *PropertyTree) GetInstants(name string) []time.Time     { return t.root.GetInstants(name) }

func (t *PropertyTree) AddLink(name string, v Link) (*Property, error) { return t.root.AddLink(name, v) }
func (t *PropertyTree) SetLink(ref string, v Link) (*Property, error)  { return t.root.SetLink(ref, v) }
func (t *PropertyTree) GetLink(ref string) (Link, bool)                { return t.root.GetLink(ref) }
func (t *PropertyTree) GetLinks(name string) []Link                    { return t.root.GetLinks(name) }
