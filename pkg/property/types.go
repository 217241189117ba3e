// ABOUTME: Scalar payload types carried by property values
// ABOUTME: References, links, geo points and zone-less date/time values

package property

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Reference points at another content item by id
type Reference string

// BinaryReference names an attachment of the owning content
type BinaryReference string

// Link is a URL or content path
type Link string

func (r Reference) String() string       { return string(r) }
func (b BinaryReference) String() string { return string(b) }
func (l Link) String() string            { return string(l) }

// GeoPoint is a latitude/longitude pair in degrees
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// IsValid checks the coordinate ranges
func (g GeoPoint) IsValid() bool {
	return g.Latitude >= -90 && g.Latitude <= 90 &&
		g.Longitude >= -180 && g.Longitude <= 180
}

// String renders "lat,lon"
func (g GeoPoint) String() string {
	return strconv.FormatFloat(g.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(g.Longitude, 'f', -1, 64)
}

// ParseGeoPoint reads "lat,lon"
func ParseGeoPoint(s string) (GeoPoint, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return GeoPoint{}, fmt.Errorf("geo point %q: expected lat,lon", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("geo point %q: %w", s, err)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("geo point %q: %w", s, err)
	}
	g := GeoPoint{Latitude: la, Longitude: lo}
	if !g.IsValid() {
		return GeoPoint{}, fmt.Errorf("geo point %q: coordinates out of range", s)
	}
	return g, nil
}

const (
	localDateLayout     = "2006-01-02"
	localTimeLayout     = "15:04:05.999999999"
	localTimeLayoutHM   = "15:04"
	localDateTimeLayout = "2006-01-02T15:04:05.999999999"
	localDateTimeHM     = "2006-01-02T15:04"
)

// LocalDate is a calendar date without a time zone
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// LocalDateOf takes the date part of t in its own location
func LocalDateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// ParseLocalDate reads "YYYY-MM-DD"
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse(localDateLayout, strings.TrimSpace(s))
	if err != nil {
		return LocalDate{}, err
	}
	return LocalDateOf(t), nil
}

// IsValid rejects dates that do not exist in the calendar or fall
// outside years 0000 to 9999
func (d LocalDate) IsValid() bool {
	return d.Year >= 0 && d.Year <= 9999 && LocalDateOf(d.In(time.UTC)) == d
}

// In returns midnight of the date in loc
func (d LocalDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// LocalTime is a wall-clock time without a date or zone
type LocalTime struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// LocalTimeOf takes the clock part of t in its own location
func LocalTimeOf(t time.Time) LocalTime {
	return LocalTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

// ParseLocalTime reads "HH:MM" or "HH:MM:SS[.fffffffff]"
func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(localTimeLayout, s)
	if err != nil {
		var errHM error
		if t, errHM = time.Parse(localTimeLayoutHM, s); errHM != nil {
			return LocalTime{}, err
		}
	}
	return LocalTimeOf(t), nil
}

// IsValid checks every field range
func (t LocalTime) IsValid() bool {
	return t.Hour >= 0 && t.Hour < 24 &&
		t.Minute >= 0 && t.Minute < 60 &&
		t.Second >= 0 && t.Second < 60 &&
		t.Nanosecond >= 0 && t.Nanosecond < 1e9
}

func (t LocalTime) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC).Format(localTimeLayout)
}

// LocalDateTime is a date and wall-clock time without a zone
type LocalDateTime struct {
	Date LocalDate
	Time LocalTime
}

// LocalDateTimeOf takes date and clock of t in its own location
func LocalDateTimeOf(t time.Time) LocalDateTime {
	return LocalDateTime{Date: LocalDateOf(t), Time: LocalTimeOf(t)}
}

// ParseLocalDateTime reads "YYYY-MM-DDTHH:MM[:SS[.f]]"
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(localDateTimeLayout, s)
	if err != nil {
		var errHM error
		if t, errHM = time.Parse(localDateTimeHM, s); errHM != nil {
			return LocalDateTime{}, err
		}
	}
	return LocalDateTimeOf(t), nil
}

// IsValid checks both parts
func (dt LocalDateTime) IsValid() bool {
	return dt.Date.IsValid() && dt.Time.IsValid()
}

// In places the wall-clock time in loc
func (dt LocalDateTime) In(loc *time.Location) time.Time {
	return time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Nanosecond, loc)
}

func (dt LocalDateTime) String() string {
	return dt.In(time.UTC).Format(localDateTimeLayout)
}

// ParseInstant reads an RFC 3339 timestamp and normalizes it to UTC
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatInstant renders t in UTC as RFC 3339
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// instantInRange reports whether t has a four-digit UTC year, the range
// RFC 3339 text can carry
func instantInRange(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 0 && y <= 9999
}
