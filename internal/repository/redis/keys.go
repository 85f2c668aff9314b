package redis

import "fmt"

const ns = "collective:v1"

func KeyOccurrenceSummary(occurrenceID int64) string {
	return fmt.Sprintf("%s:occurrence:%d:summary", ns, occurrenceID)
}

func KeyOccurrenceCounts(occurrenceID int64) string {
	return fmt.Sprintf("%s:occurrence:%d:counts", ns, occurrenceID)
}

// RateLimitPrefix namespaces a limiter's keys under one scope, e.g. "rsvp".
func RateLimitPrefix(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func ChannelOccurrencesChanged() string {
	return ns + ":occurrences:changed"
}
