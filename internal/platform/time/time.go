// Package time contains time related helpers
package time

import "time"

// Ptr maps a zero time to nil so optional timestamp fields
// (e.g. last_synced_at, pushed_at) marshal as absent instead of epoch
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
