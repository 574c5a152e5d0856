package conflict

import (
	"testing"
	"time"

	"github.com/tandemapp/tandemsync/internal/types"
)

func stamped(created, updated time.Time) types.Meta {
	return types.Meta{ID: "r1", CreatedAt: created, UpdatedAt: updated}
}

func TestRemoteWins(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	var none time.Time

	cases := []struct {
		name          string
		local, remote types.Meta
		want          bool
	}{
		{"remote newer", stamped(t0, t1), stamped(t0, t2), true},
		{"remote older", stamped(t0, t1), stamped(t0, t0), false},
		{"tie favours remote", stamped(t0, t1), stamped(t0, t1), true},
		{"remote unstamped", stamped(t0, t1), stamped(none, none), true},
		{"local unstamped", stamped(none, none), stamped(t0, t0), true},
		{"both unstamped", stamped(none, none), stamped(none, none), true},
		{"falls back to createdAt", stamped(t1, none), stamped(t0, none), false},
		{"createdAt tie", stamped(t1, none), stamped(t1, none), true},
		{"updatedAt beats older createdAt", stamped(t0, t2), stamped(t1, none), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RemoteWins(tc.local, tc.remote); got != tc.want {
				t.Fatalf("RemoteWins = %v, want %v", got, tc.want)
			}
		})
	}
}
