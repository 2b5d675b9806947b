package datetime

import "time"

// ToLocaleTime renders a timestamp the way responses expect it: local time,
// day/month/year with dot-separated clock ("14/8/2023, 20.33.20").
func ToLocaleTime(t time.Time) string {
	return t.Local().Format("2/1/2006, 15.04.05")
}

// ToLocaleTimePtr is ToLocaleTime for nullable timestamps; nil stays nil.
func ToLocaleTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := ToLocaleTime(*t)
	return &s
}
