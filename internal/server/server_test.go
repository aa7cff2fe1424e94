package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/salah/internal/cache"
	"github.com/smokyabdulrahman/salah/internal/method"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/report"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fixedNow is 11:00 on Friday 2021-04-09 in Jakarta.
var fixedNow = time.Date(2021, time.April, 9, 11, 0, 0, 0, time.FixedZone("WIB", 7*3600))

func newTestServer(t *testing.T, withDefault bool) *Server {
	t.Helper()
	opts := Options{
		Defaults:  Defaults{Config: method.Singapore.Config()},
		Schedules: cache.NewSchedules(64, time.Hour),
		Now:       func() time.Time { return fixedNow },
	}
	if withDefault {
		loc, err := prayer.NewLocation(-6.18233995, 106.84287154, 7)
		if err != nil {
			t.Fatal(err)
		}
		opts.Defaults.Location = &loc
	}
	return New(opts)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, false), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, false)

	rec := get(t, s, "/healthz")
	if id := rec.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request ID = %q, want a UUID", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if id := rec.Header().Get(RequestIDHeader); id != "abc-123" {
		t.Errorf("request ID = %q, want the caller's", id)
	}
}

func TestTimings_DefaultLocation(t *testing.T) {
	s := newTestServer(t, true)

	rec := get(t, s, "/v1/timings")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	doc := decode[report.Schedule](t, rec)

	if doc.Date != "2021-04-09" || doc.Method != "singapore" {
		t.Errorf("Date/Method = %q/%q", doc.Date, doc.Method)
	}
	if len(doc.Timings) != 6 {
		t.Fatalf("len(Timings) = %d, want 6", len(doc.Timings))
	}
	if got := doc.Timings[2].Time.Format("15:04:05"); got != "11:54:14" && got != "11:54:13" && got != "11:54:15" {
		t.Errorf("Dohr = %s, want about 11:54:14", got)
	}
	if doc.Timings[2].Name != "Jumua" {
		t.Errorf("Dohr name = %q, want Jumua", doc.Timings[2].Name)
	}
}

func TestTimings_QueryOverrides(t *testing.T) {
	s := newTestServer(t, true)

	rec := get(t, s, "/v1/timings?lat=21.4225&lon=39.8262&offset=3&date=2024-03-15&method=umm-al-qura&madhab=hanafi&prayers=fajr,isha")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	doc := decode[report.Schedule](t, rec)

	if doc.Date != "2024-03-15" || doc.Method != "umm-al-qura" || doc.Madhab != "hanafi" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Location.UTCOffset != 3 {
		t.Errorf("UTCOffset = %d, want 3", doc.Location.UTCOffset)
	}
	if len(doc.Timings) != 2 || doc.Timings[1].Prayer != "Ishaa" {
		t.Errorf("Timings = %+v", doc.Timings)
	}
	if !doc.Hijri.Ramadan {
		t.Error("2024-03-15 should be in Ramadan")
	}
}

func TestTimings_Memoised(t *testing.T) {
	s := newTestServer(t, true)

	get(t, s, "/v1/timings")
	get(t, s, "/v1/timings")
	if n := s.schedules.Len(); n != 1 {
		t.Errorf("cached schedules = %d, want 1", n)
	}
}

func TestTimings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		def     bool
		target  string
		status  int
		message string
	}{
		{"no location", false, "/v1/timings", 400, "lat and lon are required"},
		{"half location", true, "/v1/timings?lat=1", 400, "together"},
		{"bad lat", false, "/v1/timings?lat=x&lon=1&offset=0", 400, "invalid lat"},
		{"out of range", false, "/v1/timings?lat=95&lon=1&offset=0", 400, "latitude"},
		{"no offset", false, "/v1/timings?lat=1&lon=1", 400, "offset is required"},
		{"fractional offset", true, "/v1/timings?offset=5.5", 400, "whole hours"},
		{"bad method", true, "/v1/timings?method=jafari", 400, "valid methods"},
		{"bad madhab", true, "/v1/timings?madhab=maliki", 400, "valid madhabs"},
		{"bad summer", true, "/v1/timings?summer=maybe", 400, "summer"},
		{"bad date", true, "/v1/timings?date=2021-02-30", 400, "invalid date"},
		{"bad prayers", true, "/v1/timings?prayers=fajr,tahajjud", 400, "valid prayers"},
		{"bad correction", true, "/v1/timings?correction=5", 400, "correction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(t, tt.def), tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			body := decode[map[string]string](t, rec)
			if !strings.Contains(body["error"], tt.message) {
				t.Errorf("error = %q, want it to contain %q", body["error"], tt.message)
			}
			if body["request_id"] == "" {
				t.Error("error body should carry the request ID")
			}
		})
	}
}

func TestTimings_HighLatitude(t *testing.T) {
	s := newTestServer(t, false)

	rec := get(t, s, "/v1/timings?lat=78.2232&lon=15.6267&offset=1&date=2024-06-21")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	doc := decode[report.Schedule](t, rec)
	if !doc.Adjusted {
		t.Error("polar day should be marked as adjusted")
	}
	if len(doc.Timings) != 6 {
		t.Errorf("timings = %d, want 6", len(doc.Timings))
	}
}

func TestCurrent(t *testing.T) {
	s := newTestServer(t, true)

	rec := get(t, s, "/v1/current")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	st := decode[report.State](t, rec)
	if st.Current != "Sherook" || st.Next.Name != "Jumua" || st.Minutes != 54 {
		t.Errorf("state = %+v", st)
	}
}

func TestCurrent_RollsToTheScheduleInEffect(t *testing.T) {
	s := newTestServer(t, false)

	rec := get(t, s, "/v1/current?lat=-6.18233995&lon=106.84287154&offset=-12&at=2021-04-09T17:00:00-12:00")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	st := decode[report.State](t, rec)
	if st.Date != "2021-04-10" || st.Current != "Dohr" || st.Next.Prayer != "Asr" {
		t.Errorf("state = %+v, want the 10th's Dohr before Asr", st)
	}
}

func TestCurrent_At(t *testing.T) {
	s := newTestServer(t, true)

	// 21:00 UTC is 04:00 the next morning in Jakarta, before Fajr.
	rec := get(t, s, "/v1/current?at=2021-04-09T21:00:00Z")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	st := decode[report.State](t, rec)
	if st.Date != "2021-04-10" {
		t.Errorf("Date = %q, want the Jakarta civil date 2021-04-10", st.Date)
	}
	if st.Current != "Ishaa" || st.Next.Prayer != "Fajr" {
		t.Errorf("state = %+v, want pre-dawn Ishaa before Fajr", st)
	}

	if rec := get(t, s, "/v1/current?at=yesterday"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad at: status = %d, want 400", rec.Code)
	}
}

func TestHijri(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		target    string
		gregorian string
		formatted string
	}{
		{"/v1/hijri", "2021-04-09", "25 Shaban 1442"},
		{"/v1/hijri?date=2023-08-30", "2023-08-30", "12 Safar 1445"},
		{"/v1/hijri?date=2021-04-09&correction=1", "2021-04-09", "26 Shaban 1442"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			got := decode[hijriResponse](t, rec)
			if got.Gregorian != tt.gregorian || got.Hijri.Formatted != tt.formatted {
				t.Errorf("got %s / %s, want %s / %s", got.Gregorian, got.Hijri.Formatted, tt.gregorian, tt.formatted)
			}
		})
	}
}

func TestHijri_ToGregorian(t *testing.T) {
	s := newTestServer(t, false)

	rec := get(t, s, "/v1/hijri?hijri=1442-08-25")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decode[hijriResponse](t, rec)
	// The Gregorian inverse runs four days ahead of the forward conversion.
	if got.Gregorian != "2021-04-13" {
		t.Errorf("Gregorian = %s, want 2021-04-13", got.Gregorian)
	}

	for _, bad := range []string{"1442-13-01", "1442-08", "1442-08-31", "x-1-1"} {
		if rec := get(t, s, "/v1/hijri?hijri="+bad); rec.Code != http.StatusBadRequest {
			t.Errorf("hijri=%s: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestMethods(t *testing.T) {
	rec := get(t, newTestServer(t, false), "/v1/methods")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	views := decode[[]methodView](t, rec)
	if len(views) != len(method.All()) {
		t.Fatalf("len = %d, want %d", len(views), len(method.All()))
	}

	bySlug := make(map[string]methodView)
	for _, v := range views {
		bySlug[v.Slug] = v
	}
	if v := bySlug["egyptian"]; v.FajrAngle != 19.5 || v.IshaaAngle != 17.5 || v.AlAdhanID == nil || *v.AlAdhanID != 5 {
		t.Errorf("egyptian = %+v", v)
	}
	if v := bySlug["fixed-interval"]; v.AlAdhanID != nil || v.IshaMinutes != 90 {
		t.Errorf("fixed-interval = %+v", v)
	}
}

func TestNoRoute(t *testing.T) {
	if rec := get(t, newTestServer(t, false), "/v2/timings"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s := newTestServer(t, false)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe returned %v after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
