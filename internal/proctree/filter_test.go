package proctree

import (
	"testing"

	"github.com/prabalesh/brtop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatch(t *testing.T) {
	p := models.ProcessInfo{
		PID: 4242, Name: "Firefox", Command: "/usr/lib/firefox/firefox -P work",
		User: "alice", State: models.StateRunning, CPUPercent: 12.5, MemPercent: 3,
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"", true},
		{"fire", true},
		{"FIREFOX", true},
		{"work", true},
		{"424", true},
		{"chrome", false},
		{"user:ali", true},
		{"user:bob", false},
		{"pid:4242", true},
		{"pid:42", false},
		{"state:r", true},
		{"state:running", true},
		{"state:z", false},
		{"cpu>10", true},
		{"cpu>20", false},
		{"mem<5", true},
		{"mem>5", false},
		{"fire user:alice cpu>1", true},
		{"fire user:root", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := ParseFilter(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(p))
		})
	}
}

func TestParseFilterErrors(t *testing.T) {
	for _, expr := range []string{"pid:abc", "cpu>lots", "mem<"} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseFilter(expr)
			assert.Error(t, err)
		})
	}
}

func TestFilterActive(t *testing.T) {
	f, _ := ParseFilter("   ")
	assert.False(t, f.Active())

	f, _ = ParseFilter(" ssh ")
	assert.True(t, f.Active())
	assert.Equal(t, "ssh", f.String())
}
