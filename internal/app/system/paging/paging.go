// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// Window bounds a "limit" style query parameter.
type Window struct {
	Default int
	Min     int
	Max     int
}

// ActivityLogs is the window for /api/admin/activity-logs.
var ActivityLogs = Window{Default: 20, Min: 1, Max: 100}

// Clamp forces n into [Min, Max].
func (w Window) Clamp(n int) int {
	return min(max(n, w.Min), w.Max)
}

// ParseLimit reads key from the query string. Missing or non-numeric values
// give Default; anything else is clamped.
func (w Window) ParseLimit(r *http.Request, key string) int {
	s := query.Get(r, key)
	if s == "" {
		return w.Default
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return w.Default
	}
	return w.Clamp(n)
}
