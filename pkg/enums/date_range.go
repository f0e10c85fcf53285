package enums

import "fmt"

// DateRange names a relative creation-date window for lead filtering.
type DateRange string

const (
	DateRangeAll        DateRange = "all"
	DateRangeToday      DateRange = "today"
	DateRangeYesterday  DateRange = "yesterday"
	DateRangeLast7Days  DateRange = "last_7_days"
	DateRangeLast30Days DateRange = "last_30_days"
	DateRangeThisMonth  DateRange = "this_month"
	DateRangeCustom     DateRange = "custom"
)

var validDateRanges = []DateRange{
	DateRangeAll,
	DateRangeToday,
	DateRangeYesterday,
	DateRangeLast7Days,
	DateRangeLast30Days,
	DateRangeThisMonth,
	DateRangeCustom,
}

// String implements fmt.Stringer.
func (d DateRange) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DateRange.
func (d DateRange) IsValid() bool {
	for _, candidate := range validDateRanges {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDateRange converts raw input into a DateRange.
func ParseDateRange(value string) (DateRange, error) {
	for _, candidate := range validDateRanges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid date range %q", value)
}
