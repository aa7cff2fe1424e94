package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/method"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/report"
)

type apiError struct {
	Code    int
	Message string
}

func badRequest(format string, a ...any) *apiError {
	return &apiError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, a...)}
}

type handlerFunc func(c *gin.Context) (any, *apiError)

func resolve(h handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, e := h(c)
		if e != nil {
			c.JSON(e.Code, gin.H{"error": e.Message, "request_id": c.GetString(requestIDKey)})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ---------------------------------------------------------------------------
// Query parameters
// ---------------------------------------------------------------------------

func (s *Server) location(c *gin.Context) (prayer.Location, *apiError) {
	latRaw, lonRaw, offRaw := c.Query("lat"), c.Query("lon"), c.Query("offset")

	var lat, lon float64
	offset := 0
	haveOffset := false
	if d := s.defaults.Location; d != nil {
		lat, lon, offset, haveOffset = float64(d.Latitude), float64(d.Longitude), d.UTCOffset, true
	}

	switch {
	case latRaw == "" && lonRaw == "":
		if s.defaults.Location == nil {
			return prayer.Location{}, badRequest("lat and lon are required")
		}
	case latRaw == "" || lonRaw == "":
		return prayer.Location{}, badRequest("lat and lon must be given together")
	default:
		var err error
		if lat, err = strconv.ParseFloat(latRaw, 64); err != nil {
			return prayer.Location{}, badRequest("invalid lat %q", latRaw)
		}
		if lon, err = strconv.ParseFloat(lonRaw, 64); err != nil {
			return prayer.Location{}, badRequest("invalid lon %q", lonRaw)
		}
	}

	if offRaw != "" {
		v, err := strconv.Atoi(offRaw)
		if err != nil {
			return prayer.Location{}, badRequest("invalid offset %q: must be whole hours", offRaw)
		}
		offset, haveOffset = v, true
	}
	if !haveOffset {
		return prayer.Location{}, badRequest("offset is required")
	}

	loc, err := prayer.NewLocation(lat, lon, offset)
	if err != nil {
		return prayer.Location{}, badRequest("%v", err)
	}
	return loc, nil
}

func (s *Server) config(c *gin.Context) (method.Config, *apiError) {
	cfg := s.defaults.Config

	if raw := c.Query("method"); raw != "" {
		m, err := method.ParseMethod(raw)
		if err != nil {
			return cfg, badRequest("%v", err)
		}
		cfg = m.Config().WithMadhab(cfg.Madhab).WithSummerTime(cfg.SummerTime)
	}
	if raw := c.Query("madhab"); raw != "" {
		m, err := method.ParseMadhab(raw)
		if err != nil {
			return cfg, badRequest("%v", err)
		}
		cfg = cfg.WithMadhab(m)
	}
	if raw := c.Query("summer"); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, badRequest("invalid summer %q: must be true or false", raw)
		}
		cfg = cfg.WithSummerTime(on)
	}
	return cfg, nil
}

func (s *Server) correction(c *gin.Context) (int, *apiError) {
	raw := c.Query("correction")
	if raw == "" {
		return s.defaults.HijriCorrection, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < -2 || v > 2 {
		return 0, badRequest("invalid correction %q: must be between -2 and 2", raw)
	}
	return v, nil
}

func queryDate(c *gin.Context, today calendar.Date) (calendar.Date, *apiError) {
	raw := c.Query("date")
	if raw == "" {
		return today, nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return calendar.Date{}, badRequest("invalid date %q: use YYYY-MM-DD", raw)
	}
	return d, nil
}

func (s *Server) instant(c *gin.Context) (time.Time, *apiError) {
	raw := c.Query("at")
	if raw == "" {
		return s.now(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, badRequest("invalid at %q: use RFC 3339", raw)
	}
	return t, nil
}

func (s *Server) schedule(c *gin.Context, date calendar.Date, loc prayer.Location, cfg method.Config) (*prayer.Schedule, *apiError) {
	sched, err := s.schedules.Get(date, loc, cfg)
	if err != nil {
		if errors.Is(err, prayer.ErrInvalidTime) {
			return nil, &apiError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
		}
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("compute schedule")
		return nil, &apiError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
	return sched, nil
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

// GET /v1/timings?lat=&lon=&offset=&date=&method=&madhab=&summer=&prayers=
func (s *Server) timings(c *gin.Context) (any, *apiError) {
	loc, e := s.location(c)
	if e != nil {
		return nil, e
	}
	cfg, e := s.config(c)
	if e != nil {
		return nil, e
	}
	corr, e := s.correction(c)
	if e != nil {
		return nil, e
	}
	date, e := queryDate(c, loc.Today(s.now()))
	if e != nil {
		return nil, e
	}

	var selected []prayer.Prayer
	if raw := c.Query("prayers"); raw != "" {
		list, err := prayer.ParsePrayerList(raw)
		if err != nil {
			return nil, badRequest("%v", err)
		}
		selected = list
	}

	sched, e := s.schedule(c, date, loc, cfg)
	if e != nil {
		return nil, e
	}
	return report.NewSchedule(sched, selected, corr), nil
}

// GET /v1/current?lat=&lon=&offset=&at=&method=&madhab=&summer=
func (s *Server) current(c *gin.Context) (any, *apiError) {
	loc, e := s.location(c)
	if e != nil {
		return nil, e
	}
	cfg, e := s.config(c)
	if e != nil {
		return nil, e
	}
	corr, e := s.correction(c)
	if e != nil {
		return nil, e
	}
	at, e := s.instant(c)
	if e != nil {
		return nil, e
	}

	sched, e := s.schedule(c, loc.Today(at), loc, cfg)
	if e != nil {
		return nil, e
	}
	if !sched.Covers(at) {
		if sched, e = s.schedule(c, sched.Date.AddDays(1), loc, cfg); e != nil {
			return nil, e
		}
	}
	return report.NewState(sched, at.In(loc.Zone()), corr), nil
}

type hijriResponse struct {
	Gregorian string       `json:"gregorian"`
	Hijri     report.Hijri `json:"hijri"`
}

// GET /v1/hijri?date=YYYY-MM-DD&correction=  or  /v1/hijri?hijri=YYYY-MM-DD
func (s *Server) hijri(c *gin.Context) (any, *apiError) {
	if raw := c.Query("hijri"); raw != "" {
		h, err := calendar.ParseHijriDate(raw)
		if err != nil {
			return nil, badRequest("%v", err)
		}
		g, err := h.ToGregorian()
		if err != nil {
			return nil, &apiError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
		}
		return hijriResponse{Gregorian: g.String(), Hijri: report.NewHijri(h)}, nil
	}

	corr, e := s.correction(c)
	if e != nil {
		return nil, e
	}
	zone := time.UTC
	if s.defaults.Location != nil {
		zone = s.defaults.Location.Zone()
	}
	date, e := queryDate(c, calendar.DateOf(s.now().In(zone)))
	if e != nil {
		return nil, e
	}
	return hijriResponse{
		Gregorian: date.String(),
		Hijri:     report.NewHijri(calendar.HijriFromGregorian(date, corr)),
	}, nil
}

type methodView struct {
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	AlAdhanID      *int    `json:"aladhan_id,omitempty"`
	FajrAngle      float32 `json:"fajr_angle"`
	IshaaAngle     float32 `json:"ishaa_angle,omitempty"`
	IshaMinutes    float32 `json:"isha_interval,omitempty"`
	RamadanMinutes float32 `json:"isha_interval_ramadan,omitempty"`
}

// GET /v1/methods
func (s *Server) methods(*gin.Context) (any, *apiError) {
	all := method.All()
	out := make([]methodView, len(all))
	for i, info := range all {
		cfg := info.Method.Config()
		out[i] = methodView{
			Slug:           info.Slug,
			Name:           info.Name,
			Description:    info.Description,
			FajrAngle:      cfg.FajrAngle,
			IshaaAngle:     cfg.IshaaAngle,
			IshaMinutes:    cfg.IshaInterval.Minutes,
			RamadanMinutes: cfg.IshaInterval.RamadanMinutes,
		}
		if id, ok := info.Method.AlAdhanID(); ok {
			out[i].AlAdhanID = &id
		}
	}
	return out, nil
}
