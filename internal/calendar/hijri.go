package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

var englishMonths = [12]string{
	"Moharram", "Safar", "Rabie-I", "Rabie-II", "Jumada-I", "Jumada-II",
	"Rajab", "Shaban", "Ramadan", "Shawwal", "Delqada", "Delhijja",
}

var arabicMonths = [12]string{
	"محرم", "صفر", "ربيع الأول", "ربيع الثاني", "جمادى الأولى", "جمادى الثانية",
	"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة",
}

// Ramadan is the ninth Hijri month.
const Ramadan = 9

// HijriDate is a date in the tabular Hijri calendar. The month is always
// in 1..12; use NewHijriDate or one of the From constructors.
type HijriDate struct {
	year  int
	month int
	day   int
}

// NewHijriDate returns the Hijri date year-month-day. It fails with a
// *MonthError when month is outside 1..12.
func NewHijriDate(year, month, day int) (HijriDate, error) {
	if month < 1 || month > 12 {
		return HijriDate{}, &MonthError{Month: month}
	}
	return HijriDate{year: year, month: month, day: day}, nil
}

// ParseHijriDate parses a YYYY-MM-DD Hijri date. The day must be in 1..30.
func ParseHijriDate(s string) (HijriDate, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return HijriDate{}, fmt.Errorf("invalid Hijri date %q: use YYYY-MM-DD", s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return HijriDate{}, fmt.Errorf("invalid Hijri date %q: use YYYY-MM-DD", s)
		}
		n[i] = v
	}
	if n[2] < 1 || n[2] > 30 {
		return HijriDate{}, fmt.Errorf("invalid Hijri date %q: day must be between 1 and 30", s)
	}
	return NewHijriDate(n[0], n[1], n[2])
}

// HijriFromJulianDay converts a Julian day number, shifted by correction
// days, to a Hijri date.
func HijriFromJulianDay(jd, correction int) HijriDate {
	y, m, d := JulianDayToHijri(jd, correction)
	return HijriDate{year: y, month: m, day: d}
}

// HijriFromGregorian converts a Gregorian date to its Hijri equivalent,
// shifted by correction days.
func HijriFromGregorian(d Date, correction int) HijriDate {
	return HijriFromJulianDay(int(GregorianToJulianDay(d)), correction)
}

func (h HijriDate) Year() int  { return h.year }
func (h HijriDate) Month() int { return h.month }
func (h HijriDate) Day() int   { return h.day }

// MonthNameEnglish returns the transliterated month name, e.g. "Shaban".
func (h HijriDate) MonthNameEnglish() string { return monthName(englishMonths, h.month) }

// MonthNameArabic returns the Arabic month name, e.g. "شعبان".
func (h HijriDate) MonthNameArabic() string { return monthName(arabicMonths, h.month) }

// monthName returns "" for the zero HijriDate.
func monthName(names [12]string, month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return names[month-1]
}

// IsRamadan reports whether h falls in the month of Ramadan.
func (h HijriDate) IsRamadan() bool { return h.month == Ramadan }

// JulianDay returns the Julian day number of h.
func (h HijriDate) JulianDay() int {
	return HijriToJulianDay(h.year, h.month, h.day)
}

// ToGregorian converts h to a Gregorian date.
func (h HijriDate) ToGregorian() (Date, error) {
	y, m, d := JulianDayToGregorian(float32(h.JulianDay()))
	return NewDate(y, m, d)
}

// Tomorrow returns the Hijri date following h.
func (h HijriDate) Tomorrow() HijriDate {
	return HijriFromJulianDay(h.JulianDay()+1, 0)
}

func (h HijriDate) String() string {
	return fmt.Sprintf("%d %s %d", h.day, h.MonthNameEnglish(), h.year)
}
