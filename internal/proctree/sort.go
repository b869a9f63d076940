package proctree

import (
	"fmt"
	"strings"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
)

// SortKey selects the column rows are ordered by.
type SortKey int

const (
	SortCPU SortKey = iota
	SortMem
	SortPID
	SortName
	SortThreads
	SortUser
	SortCommand

	numSortKeys
)

var sortKeyNames = [numSortKeys]string{"cpu", "mem", "pid", "name", "threads", "user", "command"}

func (k SortKey) String() string {
	if k < 0 || k >= numSortKeys {
		return "unknown"
	}
	return sortKeyNames[k]
}

// Next returns the following key, wrapping around.
func (k SortKey) Next() SortKey { return (k + 1) % numSortKeys }

// Prev returns the preceding key, wrapping around.
func (k SortKey) Prev() SortKey { return (k + numSortKeys - 1) % numSortKeys }

// ParseSortKey accepts the names printed by String, case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range sortKeyNames {
		if name == s {
			return SortKey(i), nil
		}
	}
	return SortCPU, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown sort key '%s'", s),
		"Valid keys: "+strings.Join(sortKeyNames[:], ", "))
}

// compare orders a and b by key, ascending. It returns 0 on ties.
func compare(key SortKey, a, b models.ProcessInfo) int {
	switch key {
	case SortCPU:
		return cmpFloat(a.CPUPercent, b.CPUPercent)
	case SortMem:
		if c := cmpFloat(a.MemPercent, b.MemPercent); c != 0 {
			return c
		}
		return cmpInt(int64(a.RSS), int64(b.RSS))
	case SortPID:
		return cmpInt(int64(a.PID), int64(b.PID))
	case SortName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortThreads:
		return cmpInt(int64(a.Threads), int64(b.Threads))
	case SortUser:
		return strings.Compare(a.User, b.User)
	case SortCommand:
		return strings.Compare(strings.ToLower(a.Command), strings.ToLower(b.Command))
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
