// Package conflict implements the last-write-wins policy used when a
// realtime update arrives for a record that already exists locally.
//
// The policy is deliberately biased toward the remote writer: with exactly
// two trusted devices in a space, a remote event that reaches us at all is
// assumed to follow a genuinely newer write, so ties go to remote and
// records without clocks are accepted rather than dropped.
package conflict

import (
	"time"

	"github.com/tandemapp/tandemsync/internal/types"
)

// RemoteWins reports whether remote should replace local.
//
// Decision table:
//   - remote carries no clock → true
//   - local carries no clock → true
//   - otherwise remote.clock >= local.clock
//
// A record's clock is UpdatedAt when set, else CreatedAt.
func RemoteWins(local, remote types.Stamped) bool {
	rt := clock(remote)
	if rt.IsZero() {
		return true
	}
	lt := clock(local)
	if lt.IsZero() {
		return true
	}
	return !rt.Before(lt)
}

func clock(s types.Stamped) time.Time {
	if t := s.UpdatedTime(); !t.IsZero() {
		return t
	}
	return s.CreatedTime()
}
