package utils

import "time"

func NowUTC() time.Time {
	return time.Now().UTC()
}

// Millis truncates t to the millisecond precision BSON dates keep.
func Millis(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
