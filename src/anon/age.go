package anon

import (
	"time"
)

const BIRTHDATE_LAYOUT = "2006-01-02"

// ParseBirthdate parses an ISO calendar date (YYYY-MM-DD).
func ParseBirthdate(s string) (time.Time, error) {
	return time.Parse(BIRTHDATE_LAYOUT, s)
}

// AgeFromBirthdate returns the number of completed years between birthdate and asOf.
// A birthday falling on asOf counts as completed. Birthdates after asOf give zero
// or negative ages.
func AgeFromBirthdate(birthdate, asOf time.Time) int {
	age := asOf.Year() - birthdate.Year()
	if asOf.Month() < birthdate.Month() ||
		(asOf.Month() == birthdate.Month() && asOf.Day() < birthdate.Day()) {
		age--
	}
	return age
}

// Today returns the current local calendar date at midnight UTC, so it can be
// compared field by field with parsed birthdates.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
