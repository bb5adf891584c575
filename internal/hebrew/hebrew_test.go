package hebrew

import (
	"testing"
	"time"
)

func TestDateYear(t *testing.T) {
	// 1 January 2024 falls in Hebrew year 5784.
	d := Date(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	if d.Year() != 5784 {
		t.Errorf("Year() = %d, want 5784", d.Year())
	}
}

func TestAgeZeroOnBirthDate(t *testing.T) {
	birth := time.Date(2010, time.June, 15, 0, 0, 0, 0, time.UTC)
	if age := Age(birth, birth); age != 0 {
		t.Errorf("Age(birth, birth) = %d, want 0", age)
	}
}

func TestBarMitzvahDateIsThirteenHebrewYears(t *testing.T) {
	birth := time.Date(2010, time.June, 15, 0, 0, 0, 0, time.UTC)
	bm := BarMitzvahDate(birth)

	if !bm.After(birth) {
		t.Fatalf("bar mitzvah date %v not after birth %v", bm, birth)
	}
	if age := Age(birth, bm); age != BarMitzvahAge {
		t.Errorf("Age(birth, barMitzvah) = %d, want %d", age, BarMitzvahAge)
	}
	if HasReachedBarMitzvah(birth, bm.AddDate(0, 0, -1)) {
		t.Error("HasReachedBarMitzvah true the day before the 13th Hebrew birthday")
	}
	if !HasReachedBarMitzvah(birth, bm) {
		t.Error("HasReachedBarMitzvah false on the 13th Hebrew birthday")
	}
}
