// Package hebrew wraps the hebcal calendar for the handful of rules Kasa
// needs: Hebrew ages and bar mitzvah dates (the 13th Hebrew birthday).
package hebrew

import (
	"fmt"
	"time"

	"github.com/hebcal/hebcal-go/hdate"
)

// BarMitzvahAge is the Hebrew age at which a male member starts being
// billed individually.
const BarMitzvahAge = 13

// Date converts a Gregorian date to its Hebrew calendar date.
func Date(t time.Time) hdate.HDate {
	return hdate.FromGregorian(t.Year(), t.Month(), t.Day())
}

// Format renders a Hebrew date as "DD Month YYYY".
func Format(t time.Time) string {
	d := Date(t)
	return fmt.Sprintf("%d %s %d", d.Day(), d.Month().String(), d.Year())
}

// Age returns whole Hebrew years between birth and ref, counting a year
// only once the Hebrew anniversary has passed.
func Age(birth, ref time.Time) int {
	b := Date(birth)
	r := Date(ref)

	years := r.Year() - b.Year()
	monthDiff := int(r.Month()) - int(b.Month())
	if monthDiff < 0 || (monthDiff == 0 && r.Day() < b.Day()) {
		years--
	}
	return years
}

// BarMitzvahDate returns the Gregorian date of the 13th Hebrew birthday.
func BarMitzvahDate(birth time.Time) time.Time {
	b := Date(birth)
	bm := hdate.New(b.Year()+BarMitzvahAge, b.Month(), b.Day())
	return bm.Gregorian()
}

// HasReachedBarMitzvah reports whether a member born on birth is 13 or
// older in Hebrew years as of ref.
func HasReachedBarMitzvah(birth, ref time.Time) bool {
	return Age(birth, ref) >= BarMitzvahAge
}
