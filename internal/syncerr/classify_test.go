package syncerr

import (
	"errors"
	"strings"
	"testing"
)

func TestFromStatus(t *testing.T) {
	cases := []struct {
		status int
		want   Category
	}{
		{500, Transient},
		{502, Transient},
		{408, Transient},
		{429, Transient},
		{400, Rejected},
		{401, Rejected},
		{403, Rejected},
		{404, Rejected},
		{302, Transient}, // unexpected codes retry conservatively
	}
	for _, tc := range cases {
		if got := FromStatus("push notes", tc.status, "").Category; got != tc.want {
			t.Errorf("status %d classified %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestIsRejected(t *testing.T) {
	if !IsRejected(FromStatus("push", 400, "bad payload")) {
		t.Fatal("400 should be a rejection")
	}
	if IsRejected(FromNetwork("push", errors.New("dial tcp: refused"))) {
		t.Fatal("network errors are transient")
	}
	if IsRejected(errors.New("plain")) {
		t.Fatal("unclassified errors are not rejections")
	}
}

func TestPushErrorMessage(t *testing.T) {
	e := FromStatus("push notes", 403, "forbidden")
	if !strings.Contains(e.Error(), "403") || !strings.Contains(e.Error(), "rejected") {
		t.Fatalf("unexpected message: %s", e.Error())
	}
	var pe *PushError
	if !errors.As(e, &pe) {
		t.Fatal("errors.As should find PushError")
	}
}
