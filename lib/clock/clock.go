package clock

import "time"

func Now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}

// Year is the current calendar year, used as the prefix of the first
// document reference.
func Year() int {
	return time.Now().Year()
}
