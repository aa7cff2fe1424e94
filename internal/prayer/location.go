package prayer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/smokyabdulrahman/salah/internal/calendar"
)

var (
	// ErrInvalidArgument is returned for locations that cannot be used.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidTime is returned when a date or a computed time cannot be
	// represented.
	ErrInvalidTime = calendar.ErrInvalidTime
)

// Location is a point on Earth with the UTC offset its clocks keep.
type Location struct {
	Latitude  float32
	Longitude float32
	UTCOffset int // hours
}

// NewLocation validates the coordinates and offset.
func NewLocation(latitude, longitude float64, utcOffset int) (Location, error) {
	switch {
	case math.IsNaN(latitude) || math.IsInf(latitude, 0) || latitude < -90 || latitude > 90:
		return Location{}, fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidArgument, latitude)
	case math.IsNaN(longitude) || math.IsInf(longitude, 0) || longitude < -180 || longitude > 180:
		return Location{}, fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidArgument, longitude)
	case utcOffset < -12 || utcOffset > 14:
		return Location{}, fmt.Errorf("%w: UTC offset %d must be between -12 and 14", ErrInvalidArgument, utcOffset)
	}
	return Location{
		Latitude:  float32(latitude),
		Longitude: float32(longitude),
		UTCOffset: utcOffset,
	}, nil
}

// OffsetHours rounds a zone offset in seconds east of UTC to whole hours.
// exact is false for zones such as UTC+5:30 that no whole hour matches.
func OffsetHours(seconds int) (hours int, exact bool) {
	return int(math.Round(float64(seconds) / 3600)), seconds%3600 == 0
}

// Zone returns a fixed time zone for the location's offset.
func (l Location) Zone() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", l.UTCOffset), l.UTCOffset*3600)
}

// Today returns the civil date at t in the location's zone.
func (l Location) Today(t time.Time) calendar.Date {
	return calendar.DateOf(t.In(l.Zone()))
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f, %.4f (UTC%+d)", l.Latitude, l.Longitude, l.UTCOffset)
}
