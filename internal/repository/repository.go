// Package repository implements the domain operations over the CSV store.
// Every lookup is a linear scan of the loaded table; every mutation goes
// through Append or a locked read-modify-write which invalidates the cache.
package repository

import (
	"strings"
	"time"
)

const (
	// MaxContentLength bounds post and comment bodies, counted in runes.
	MaxContentLength = 280

	timeLayout = "2006-01-02T15:04:05"
)

// nowISO returns the current local time as an ISO-8601 second-precision
// string, the timestamp format of every table.
func nowISO() string {
	return time.Now().Format(timeLayout)
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true")
}

func boolString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
