package sampler

import (
	"fmt"
	"sort"
	"time"

	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/prabalesh/brtop/internal/rate"
)

// ProcessHistoryLength is the number of cpu points kept per process.
const ProcessHistoryLength = 10

// Deriver turns a raw reading into an immutable payload, keeping whatever
// previous-reading state its rates need. A nil payload with a nil error
// means there is nothing to publish yet.
type Deriver interface {
	Derive(r models.Reading) (any, error)
}

// NewDeriver returns the deriver for sub configured from cfg.
func NewDeriver(sub models.Subsystem, cfg *config.Config) Deriver {
	n := cfg.HistoryLength
	switch sub {
	case models.CPU:
		return NewCPUDeriver(cfg.Smoothing.CPU, n)
	case models.Memory:
		return NewMemoryDeriver(cfg.Smoothing.Memory, n)
	case models.Network:
		return NewNetworkDeriver(cfg.Smoothing.Network, n)
	case models.Disk:
		return NewDiskDeriver(cfg.Smoothing.Disk, n)
	case models.Battery:
		return &BatteryDeriver{}
	case models.Process:
		return NewProcessDeriver(cfg.Smoothing.Process)
	default:
		return nil
	}
}

func wrongReading(want models.Subsystem, got models.Reading) error {
	return errors.New(errors.ErrReadTransient, fmt.Sprintf("%s deriver got %T", want, got), "")
}

type CPUDeriver struct {
	alpha  float64
	prev   []models.CPUTicks
	primed bool
	total  *rate.Series
	cores  []rate.EMA
}

func NewCPUDeriver(alpha float64, historyLen int) *CPUDeriver {
	return &CPUDeriver{alpha: alpha, total: rate.NewSeries(alpha, historyLen)}
}

func (d *CPUDeriver) Derive(r models.Reading) (any, error) {
	cr, ok := r.(*models.CPUReading)
	if !ok {
		return nil, wrongReading(models.CPU, r)
	}
	if !d.primed {
		d.prev, d.primed = cr.Cores, true
		return nil, nil
	}

	if len(d.cores) != len(cr.Cores) {
		cores := make([]rate.EMA, len(cr.Cores))
		for i := range cores {
			if i < len(d.cores) {
				cores[i] = d.cores[i]
			} else {
				cores[i] = rate.NewEMA(d.alpha)
			}
		}
		d.cores = cores
	}

	summary := &models.CPUSummary{
		Percent: d.total.Add(rate.WeightedPercent(d.prev, cr.Cores)),
		Cores:   make([]models.RateSample, len(cr.Cores)),
		Model:   cr.Model,
		MHz:     cr.MHz,
		TempC:   cr.TempC,
		HasTemp: cr.HasTemp,
	}
	for i, cur := range cr.Cores {
		var pct float64
		if i < len(d.prev) {
			pct = rate.CorePercent(d.prev[i], cur)
		}
		summary.Cores[i] = models.RateSample{Instant: pct, Smoothed: d.cores[i].Next(pct)}
	}
	summary.History = d.total.Values()

	d.prev = cr.Cores
	return summary, nil
}

type MemoryDeriver struct {
	used *rate.Series
}

func NewMemoryDeriver(alpha float64, historyLen int) *MemoryDeriver {
	return &MemoryDeriver{used: rate.NewSeries(alpha, historyLen)}
}

func (d *MemoryDeriver) Derive(r models.Reading) (any, error) {
	mr, ok := r.(*models.MemoryReading)
	if !ok {
		return nil, wrongReading(models.Memory, r)
	}

	summary := &models.MemorySummary{
		Total:     mr.Total,
		Used:      mr.Used,
		Free:      mr.Free,
		Available: mr.Available,
		Cached:    mr.Cached,
		SwapTotal: mr.SwapTotal,
		SwapUsed:  mr.SwapUsed,
	}
	if mr.Total > 0 {
		summary.UsagePercent = float64(mr.Used) / float64(mr.Total) * 100
	}
	if mr.SwapTotal > 0 {
		summary.SwapPercent = float64(mr.SwapUsed) / float64(mr.SwapTotal) * 100
	}
	d.used.Add(summary.UsagePercent)
	summary.History = d.used.Values()
	return summary, nil
}

type ifaceCounters struct {
	rx, tx *rate.Counter
}

type NetworkDeriver struct {
	alpha      float64
	historyLen int
	primed     bool
	ifaces     map[string]*ifaceCounters
	rxTotal    *rate.Series
	txTotal    *rate.Series
}

func NewNetworkDeriver(alpha float64, historyLen int) *NetworkDeriver {
	return &NetworkDeriver{
		alpha:      alpha,
		historyLen: historyLen,
		ifaces:     make(map[string]*ifaceCounters),
		rxTotal:    rate.NewSeries(alpha, historyLen),
		txTotal:    rate.NewSeries(alpha, historyLen),
	}
}

func (d *NetworkDeriver) Derive(r models.Reading) (any, error) {
	nr, ok := r.(*models.NetworkReading)
	if !ok {
		return nil, wrongReading(models.Network, r)
	}

	summary := &models.NetworkSummary{Interfaces: make(map[string]models.NetworkRate, len(nr.Interfaces))}
	var rxSum, txSum float64
	for _, ic := range nr.Interfaces {
		c, ok := d.ifaces[ic.Name]
		if !ok {
			c = &ifaceCounters{
				rx: rate.NewCounter(d.alpha, d.historyLen),
				tx: rate.NewCounter(d.alpha, d.historyLen),
			}
			d.ifaces[ic.Name] = c
		}
		rx, _ := c.rx.Observe(ic.RxBytes, nr.At)
		tx, _ := c.tx.Observe(ic.TxBytes, nr.At)
		rxSum += rx.Instant
		txSum += tx.Instant

		summary.Interfaces[ic.Name] = models.NetworkRate{
			Name:      ic.Name,
			Rx:        rx,
			Tx:        tx,
			RxTotal:   ic.RxBytes,
			TxTotal:   ic.TxBytes,
			RxHistory: c.rx.History(),
			TxHistory: c.tx.History(),
		}
	}

	for name := range d.ifaces {
		if _, ok := summary.Interfaces[name]; !ok {
			delete(d.ifaces, name)
		}
	}

	if !d.primed {
		d.primed = true
		return nil, nil
	}

	summary.Rx = d.rxTotal.Add(rxSum)
	summary.Tx = d.txTotal.Add(txSum)
	summary.RxHistory = d.rxTotal.Values()
	summary.TxHistory = d.txTotal.Values()
	return summary, nil
}

type mountCounters struct {
	read, write *rate.Counter
}

type DiskDeriver struct {
	alpha      float64
	historyLen int
	mounts     map[string]*mountCounters
}

func NewDiskDeriver(alpha float64, historyLen int) *DiskDeriver {
	return &DiskDeriver{
		alpha:      alpha,
		historyLen: historyLen,
		mounts:     make(map[string]*mountCounters),
	}
}

// Derive publishes usage from the first reading; IO rates read zero until
// a second reading exists.
func (d *DiskDeriver) Derive(r models.Reading) (any, error) {
	dr, ok := r.(*models.DiskReading)
	if !ok {
		return nil, wrongReading(models.Disk, r)
	}

	summary := &models.DiskSummary{Mounts: make(map[string]models.DiskUsage, len(dr.Mounts))}
	for _, m := range dr.Mounts {
		usage := models.DiskUsage{
			Device:     m.Device,
			Mountpoint: m.Mountpoint,
			Filesystem: m.Filesystem,
			Total:      m.Total,
			Used:       m.Used,
			Free:       m.Free,
			HasIO:      m.HasIO,
		}
		if m.Total > 0 {
			usage.UsagePercent = float64(m.Used) / float64(m.Total) * 100
		}

		if m.HasIO {
			c, ok := d.mounts[m.Mountpoint]
			if !ok {
				c = &mountCounters{
					read:  rate.NewCounter(d.alpha, d.historyLen),
					write: rate.NewCounter(d.alpha, d.historyLen),
				}
				d.mounts[m.Mountpoint] = c
			}
			usage.Read, _ = c.read.Observe(m.ReadBytes, dr.At)
			usage.Write, _ = c.write.Observe(m.WriteBytes, dr.At)
		}
		summary.Mounts[m.Mountpoint] = usage
	}

	for mp := range d.mounts {
		if u, ok := summary.Mounts[mp]; !ok || !u.HasIO {
			delete(d.mounts, mp)
		}
	}
	return summary, nil
}

// BatteryDeriver turns energy and power figures into time estimates.
type BatteryDeriver struct{}

func (d *BatteryDeriver) Derive(r models.Reading) (any, error) {
	br, ok := r.(*models.BatteryReading)
	if !ok {
		return nil, wrongReading(models.Battery, r)
	}

	info := &models.BatteryInfo{
		Name:       br.Name,
		Level:      clamp(br.Percent, 0, 100),
		Status:     br.Status,
		IsCharging: br.Status == models.BatteryCharging,
		PowerWatts: br.PowerNow,
	}

	if br.PowerNow > 0 {
		switch br.Status {
		case models.BatteryDischarging:
			info.TimeToEmpty = hours(br.EnergyNow / br.PowerNow)
		case models.BatteryCharging:
			if br.EnergyFull > br.EnergyNow {
				info.TimeToFull = hours((br.EnergyFull - br.EnergyNow) / br.PowerNow)
			}
		}
	}
	if br.EnergyFullDesign > 0 && br.EnergyFull > 0 {
		info.Health = clamp(br.EnergyFull/br.EnergyFullDesign*100, 0, 100)
	}
	return info, nil
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour)).Round(time.Minute)
}

type procState struct {
	cpuTime float64
	at      time.Time
	start   int64
	ema     rate.EMA
	history *rate.Ring
}

// ProcessDeriver computes per-process cpu and memory percentages. Cpu is
// normalized so a fully busy machine reads 100%. The first reading only
// records baselines.
type ProcessDeriver struct {
	alpha  float64
	prev   map[int32]*procState
	primed bool
}

func NewProcessDeriver(alpha float64) *ProcessDeriver {
	return &ProcessDeriver{alpha: alpha, prev: make(map[int32]*procState)}
}

func (d *ProcessDeriver) Derive(r models.Reading) (any, error) {
	pr, ok := r.(*models.ProcessReading)
	if !ok {
		return nil, wrongReading(models.Process, r)
	}
	if !d.primed {
		for _, pc := range pr.Processes {
			st := d.newState(pc.StartTime)
			st.cpuTime, st.at = pc.CPUTime, pr.At
			d.prev[pc.PID] = st
		}
		d.primed = true
		return nil, nil
	}
	ncpu := float64(max(pr.NumCPU, 1))

	table := &models.ProcessTable{Processes: make(map[int32]models.ProcessInfo, len(pr.Processes))}
	for _, pc := range pr.Processes {
		st, ok := d.prev[pc.PID]
		if !ok || st.start != pc.StartTime {
			// new pid, or the pid was reused by a different process
			st = d.newState(pc.StartTime)
			d.prev[pc.PID] = st
			ok = false
		}

		var pct float64
		if ok {
			elapsed := pr.At.Sub(st.at).Seconds()
			if elapsed > 0 && pc.CPUTime >= st.cpuTime {
				pct = clamp((pc.CPUTime-st.cpuTime)/elapsed*100/ncpu, 0, 100)
			}
		}
		st.cpuTime, st.at = pc.CPUTime, pr.At
		st.history.Push(st.ema.Next(pct))

		info := models.ProcessInfo{
			PID:        pc.PID,
			PPID:       pc.PPID,
			User:       pc.User,
			Name:       pc.Name,
			Command:    pc.Command,
			State:      pc.State,
			CPUPercent: pct,
			RSS:        pc.RSS,
			Threads:    pc.Threads,
			Partial:    pc.Partial,
			CPUHistory: st.history.Values(),
		}
		if pc.StartTime > 0 {
			info.StartTime = time.UnixMilli(pc.StartTime)
		}
		if pr.MemTotal > 0 {
			info.MemPercent = float64(pc.RSS) / float64(pr.MemTotal) * 100
		}
		table.Processes[pc.PID] = info
		countState(&table.Counts, info)
	}

	for pid := range d.prev {
		if _, ok := table.Processes[pid]; !ok {
			delete(d.prev, pid)
		}
	}
	return table, nil
}

func (d *ProcessDeriver) newState(start int64) *procState {
	return &procState{start: start, ema: rate.NewEMA(d.alpha), history: rate.NewRing(ProcessHistoryLength)}
}

// Tracked returns the pids with retained rate state, sorted. Used to check
// that exited processes leave nothing behind.
func (d *ProcessDeriver) Tracked() []int32 {
	pids := make([]int32, 0, len(d.prev))
	for pid := range d.prev {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

func countState(c *models.ProcessCounts, p models.ProcessInfo) {
	c.Total++
	c.Threads += int(p.Threads)
	switch p.State {
	case models.StateRunning:
		c.Running++
	case models.StateSleeping, models.StateIdle:
		c.Sleeping++
	case models.StateZombie:
		c.Zombie++
	case models.StateStopped:
		c.Stopped++
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
