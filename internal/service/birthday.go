package service

import (
	"time"

	"contacts_api/internal/model"
)

// BirthdayWindowDays is the forward range, inclusive, used to select
// upcoming birthdays.
const BirthdayWindowDays = 7

// FilterUpcomingBirthdays returns the candidates whose birthday, re-anchored
// to today's year, falls within the next BirthdayWindowDays days of today,
// both ends inclusive, at date granularity.
//
// The comparison date always uses the current year, so a birthday in early
// January is not matched from late December. This mirrors the long-standing
// behavior of the endpoint; callers relying on year-wrap must not.
// Candidates with an unparseable birthday are skipped.
func FilterUpcomingBirthdays(candidates []model.Contact, today time.Time) []model.Contact {
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := todayDate.AddDate(0, 0, BirthdayWindowDays)

	var upcoming []model.Contact
	for _, c := range candidates {
		parsed, err := time.Parse("2006-01-02", c.Birthday)
		if err != nil {
			continue
		}
		anchored := time.Date(todayDate.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		if !anchored.Before(todayDate) && !anchored.After(windowEnd) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming
}
