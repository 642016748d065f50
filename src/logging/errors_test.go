package logging

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRateLimit(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("HTTP 429 Too Many Requests"), true},
		{fmt.Errorf("send: %w", errors.New("rate_limit exceeded")), true},
		{errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := IsRateLimit(tc.err); got != tc.want {
			t.Fatalf("IsRateLimit(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
