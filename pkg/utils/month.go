package utils

import (
	"fmt"
	"regexp"
	"time"
)

// SettlementCutoffDay is the last day of a month on which the previous
// month is still being settled.
const SettlementCutoffDay = 15

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// CurrentTargetMonth returns the "YYYY-MM" month being settled at now:
// the previous month up to the 15th, the current month afterwards.
func CurrentTargetMonth(now time.Time) string {
	if now.Day() <= SettlementCutoffDay {
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return prev.Format("2006-01")
	}
	return now.Format("2006-01")
}

// ValidateMonth checks the "YYYY-MM" format.
func ValidateMonth(month string) error {
	if !monthPattern.MatchString(month) {
		return fmt.Errorf("invalid month format (expected YYYY-MM): %s", month)
	}
	return nil
}
