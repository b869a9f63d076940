package collector

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// procHandle is the subset of *process.Process the reader uses.
type procHandle interface {
	NameWithContext(ctx context.Context) (string, error)
	PpidWithContext(ctx context.Context) (int32, error)
	StatusWithContext(ctx context.Context) ([]string, error)
	TimesWithContext(ctx context.Context) (*cpu.TimesStat, error)
	MemoryInfoWithContext(ctx context.Context) (*process.MemoryInfoStat, error)
	NumThreadsWithContext(ctx context.Context) (int32, error)
	CreateTimeWithContext(ctx context.Context) (int64, error)
	UidsWithContext(ctx context.Context) ([]int32, error)
	CmdlineWithContext(ctx context.Context) (string, error)
}

type procEntry struct {
	pid    int32
	handle procHandle
}

// ProcessReader scans the process table.
//
// Listing and per-process detail reads are separate OS calls, so a process
// may exit in between. Such a pid is dropped from the reading. A process
// whose details are partly unreadable (permission denied) is kept with
// Partial set.
type ProcessReader struct {
	users *UserCache
	now   clock

	list     func(ctx context.Context) ([]procEntry, error)
	memTotal func(ctx context.Context) (uint64, error)
	numCPU   func(ctx context.Context) (int, error)
}

func NewProcessReader(users *UserCache) *ProcessReader {
	return &ProcessReader{
		users:    users,
		now:      time.Now,
		list:     listProcesses,
		memTotal: totalMemory,
		numCPU:   func(ctx context.Context) (int, error) { return cpu.CountsWithContext(ctx, true) },
	}
}

func listProcesses(ctx context.Context) ([]procEntry, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]procEntry, 0, len(procs))
	for _, p := range procs {
		entries = append(entries, procEntry{pid: p.Pid, handle: p})
	}
	return entries, nil
}

func totalMemory(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}

func (r *ProcessReader) Subsystem() models.Subsystem { return models.Process }

func (r *ProcessReader) Read(ctx context.Context) (models.Reading, error) {
	entries, err := r.list(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrReadTransient, "Failed to list processes", "")
	}

	reading := &models.ProcessReading{
		At:        r.now(),
		Processes: make([]models.ProcessCounters, 0, len(entries)),
	}
	reading.MemTotal, _ = r.memTotal(ctx)
	if n, err := r.numCPU(ctx); err == nil && n > 0 {
		reading.NumCPU = n
	} else {
		reading.NumCPU = 1
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pc, ok := r.readOne(ctx, e); ok {
			reading.Processes = append(reading.Processes, pc)
		}
	}

	return reading, nil
}

// readOne reads the details of one process. ok is false when the process
// vanished part way through.
func (r *ProcessReader) readOne(ctx context.Context, e procEntry) (pc models.ProcessCounters, ok bool) {
	pc.PID = e.pid
	pc.State = models.StateUnknown

	// gone records a failed detail read and reports whether the pid vanished.
	gone := func(err error) bool {
		if err == nil {
			return false
		}
		if isProcessMissingErr(err) {
			return true
		}
		pc.Partial = true
		return false
	}

	name, err := e.handle.NameWithContext(ctx)
	if gone(err) {
		return pc, false
	}
	pc.Name = name

	ppid, err := e.handle.PpidWithContext(ctx)
	if gone(err) {
		return pc, false
	}
	pc.PPID = ppid

	status, err := e.handle.StatusWithContext(ctx)
	if gone(err) {
		return pc, false
	}
	if len(status) > 0 {
		pc.State = mapState(status[0])
	}

	times, err := e.handle.TimesWithContext(ctx)
	if gone(err) {
		return pc, false
	}
	if times != nil {
		pc.CPUTime = times.User + times.System
	}

	memInfo, err := e.handle.MemoryInfoWithContext(ctx)
	if gone(err) {
		return pc, false
	}
	if memInfo != nil {
		pc.RSS = memInfo.RSS
	}

	threads, err := e.handle.NumThreadsWithContext(ctx)
	if gone(err) {
		return pc, false
	}
	pc.Threads = threads

	created, err := e.handle.CreateTimeWithContext(ctx)
	if gone(err) {
		return pc, false
	}
	pc.StartTime = created

	uids, err := e.handle.UidsWithContext(ctx)
	if gone(err) {
		return pc, false
	}
	if len(uids) > 0 {
		pc.User = r.users.Lookup(uids[0])
	}

	cmdline, err := e.handle.CmdlineWithContext(ctx)
	if gone(err) {
		return pc, false
	}
	pc.Command = strings.TrimSpace(cmdline)
	if pc.Command == "" {
		// kernel threads have no command line
		pc.Command = "[" + pc.Name + "]"
	}

	return pc, true
}

func mapState(s string) models.ProcessState {
	switch s {
	case process.Running:
		return models.StateRunning
	case process.Sleep, process.Wait, process.Lock, process.Blocked:
		return models.StateSleeping
	case process.Zombie:
		return models.StateZombie
	case process.Stop:
		return models.StateStopped
	case process.Idle:
		return models.StateIdle
	default:
		return models.StateUnknown
	}
}

func isProcessMissingErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, process.ErrorProcessNotRunning) || errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ESRCH) || errors.Is(err, errors.ErrProcessNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such process") || strings.Contains(msg, "process does not exist")
}

func isPermissionErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission denied") || strings.Contains(msg, "operation not permitted")
}
