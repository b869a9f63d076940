package sampler

import (
	"testing"
	"time"

	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestCPUDeriverEndToEnd(t *testing.T) {
	d := NewCPUDeriver(0.5, 10)

	payload, err := d.Derive(&models.CPUReading{At: t0, Cores: []models.CPUTicks{{Active: 100, Total: 1000}}})
	require.NoError(t, err)
	assert.Nil(t, payload, "first reading only primes")

	payload, err = d.Derive(&models.CPUReading{At: t0.Add(time.Second), Cores: []models.CPUTicks{{Active: 150, Total: 1100}}, Model: "cpu"})
	require.NoError(t, err)
	s := payload.(*models.CPUSummary)
	assert.InDelta(t, 50.0, s.Percent.Instant, 0.01)
	require.Len(t, s.Cores, 1)
	assert.InDelta(t, 50.0, s.Cores[0].Instant, 0.01)
	assert.Equal(t, []float64{50}, s.History)
	assert.Equal(t, "cpu", s.Model)
}

func TestCPUDeriverHotPlug(t *testing.T) {
	d := NewCPUDeriver(1, 10)
	d.Derive(&models.CPUReading{At: t0, Cores: []models.CPUTicks{{Active: 0, Total: 0}}})

	payload, err := d.Derive(&models.CPUReading{At: t0.Add(time.Second), Cores: []models.CPUTicks{
		{Active: 50, Total: 100},
		{Active: 900, Total: 1000},
	}})
	require.NoError(t, err)
	s := payload.(*models.CPUSummary)
	require.Len(t, s.Cores, 2)
	assert.Zero(t, s.Cores[1].Instant, "new core has no baseline yet")
	assert.InDelta(t, 50.0, s.Percent.Instant, 0.01)
}

func TestNetworkDeriverEndToEnd(t *testing.T) {
	d := NewNetworkDeriver(0.3, 10)

	payload, err := d.Derive(&models.NetworkReading{At: t0, Interfaces: []models.InterfaceCounters{{Name: "eth0", RxBytes: 1000}}})
	require.NoError(t, err)
	assert.Nil(t, payload)

	payload, err = d.Derive(&models.NetworkReading{At: t0.Add(2 * time.Second), Interfaces: []models.InterfaceCounters{{Name: "eth0", RxBytes: 3000}}})
	require.NoError(t, err)
	s := payload.(*models.NetworkSummary)
	assert.InDelta(t, 1000.0, s.Interfaces["eth0"].Rx.Instant, 1e-9)
	assert.InDelta(t, 1000.0, s.Rx.Instant, 1e-9)
	assert.Equal(t, uint64(3000), s.Interfaces["eth0"].RxTotal)
}

func TestNetworkDeriverCounterReset(t *testing.T) {
	d := NewNetworkDeriver(1, 10)
	d.Derive(&models.NetworkReading{At: t0, Interfaces: []models.InterfaceCounters{{Name: "wg0", RxBytes: 5000, TxBytes: 5000}}})

	payload, _ := d.Derive(&models.NetworkReading{At: t0.Add(time.Second), Interfaces: []models.InterfaceCounters{{Name: "wg0", RxBytes: 10, TxBytes: 6000}}})
	s := payload.(*models.NetworkSummary)
	assert.Zero(t, s.Interfaces["wg0"].Rx.Instant)
	assert.InDelta(t, 1000.0, s.Interfaces["wg0"].Tx.Instant, 1e-9)
}

func TestNetworkDeriverDropsVanishedInterface(t *testing.T) {
	d := NewNetworkDeriver(1, 10)
	d.Derive(&models.NetworkReading{At: t0, Interfaces: []models.InterfaceCounters{{Name: "eth0"}, {Name: "usb0"}}})
	payload, _ := d.Derive(&models.NetworkReading{At: t0.Add(time.Second), Interfaces: []models.InterfaceCounters{{Name: "eth0"}}})

	s := payload.(*models.NetworkSummary)
	assert.Len(t, s.Interfaces, 1)
	assert.Len(t, d.ifaces, 1)
}

func TestMemoryDeriver(t *testing.T) {
	d := NewMemoryDeriver(1, 10)
	payload, err := d.Derive(&models.MemoryReading{At: t0, Total: 200, Used: 50, SwapTotal: 100, SwapUsed: 10})
	require.NoError(t, err)
	s := payload.(*models.MemorySummary)
	assert.InDelta(t, 25.0, s.UsagePercent, 1e-9)
	assert.InDelta(t, 10.0, s.SwapPercent, 1e-9)
	assert.Equal(t, []float64{25}, s.History)
}

func TestDiskDeriver(t *testing.T) {
	d := NewDiskDeriver(1, 10)
	mount := models.MountCounters{Mountpoint: "/", Total: 100, Used: 25, ReadBytes: 0, WriteBytes: 0, HasIO: true}

	payload, err := d.Derive(&models.DiskReading{At: t0, Mounts: []models.MountCounters{mount}})
	require.NoError(t, err)
	s := payload.(*models.DiskSummary)
	assert.InDelta(t, 25.0, s.Mounts["/"].UsagePercent, 1e-9, "usage published on first reading")
	assert.Zero(t, s.Mounts["/"].Read.Instant)

	mount.ReadBytes, mount.WriteBytes = 4096, 8192
	payload, _ = d.Derive(&models.DiskReading{At: t0.Add(2 * time.Second), Mounts: []models.MountCounters{mount}})
	s = payload.(*models.DiskSummary)
	assert.InDelta(t, 2048.0, s.Mounts["/"].Read.Instant, 1e-9)
	assert.InDelta(t, 4096.0, s.Mounts["/"].Write.Instant, 1e-9)
}

func TestBatteryDeriver(t *testing.T) {
	d := &BatteryDeriver{}

	payload, err := d.Derive(&models.BatteryReading{
		Status: models.BatteryDischarging, Percent: 50,
		EnergyNow: 25, EnergyFull: 50, EnergyFullDesign: 62.5, PowerNow: 10,
	})
	require.NoError(t, err)
	info := payload.(*models.BatteryInfo)
	assert.Equal(t, 150*time.Minute, info.TimeToEmpty)
	assert.Zero(t, info.TimeToFull)
	assert.InDelta(t, 80.0, info.Health, 1e-9)
	assert.False(t, info.IsCharging)

	payload, _ = d.Derive(&models.BatteryReading{Status: models.BatteryCharging, EnergyNow: 40, EnergyFull: 50, PowerNow: 20})
	info = payload.(*models.BatteryInfo)
	assert.True(t, info.IsCharging)
	assert.Equal(t, 30*time.Minute, info.TimeToFull)
	assert.Zero(t, info.Health, "unknown without design capacity")
}

func procReading(at time.Time, procs ...models.ProcessCounters) *models.ProcessReading {
	return &models.ProcessReading{At: at, NumCPU: 2, MemTotal: 1000, Processes: procs}
}

func TestProcessDeriverCPUPercent(t *testing.T) {
	d := NewProcessDeriver(1)

	payload, err := d.Derive(procReading(t0, models.ProcessCounters{PID: 10, CPUTime: 5, StartTime: 1}))
	require.NoError(t, err)
	assert.Nil(t, payload, "first reading only primes")
	assert.Equal(t, []int32{10}, d.Tracked())

	// one full core busy on a two core machine for 2s
	payload, err = d.Derive(procReading(t0.Add(2*time.Second),
		models.ProcessCounters{PID: 10, CPUTime: 7, RSS: 100, StartTime: 1, State: models.StateRunning},
		models.ProcessCounters{PID: 11, CPUTime: 3, StartTime: 5},
	))
	require.NoError(t, err)
	table := payload.(*models.ProcessTable)
	assert.InDelta(t, 50.0, table.Processes[10].CPUPercent, 1e-9)
	assert.Equal(t, []float64{50}, table.Processes[10].CPUHistory)
	assert.InDelta(t, 10.0, table.Processes[10].MemPercent, 1e-9)
	assert.Equal(t, 1, table.Counts.Running)
	assert.Zero(t, table.Processes[11].CPUPercent, "no baseline on first sight")
}

func TestProcessDeriverPIDReuse(t *testing.T) {
	d := NewProcessDeriver(1)
	d.Derive(procReading(t0, models.ProcessCounters{PID: 10, CPUTime: 500, StartTime: 1}))

	payload, _ := d.Derive(procReading(t0.Add(time.Second), models.ProcessCounters{PID: 10, CPUTime: 1, StartTime: 2}))
	table := payload.(*models.ProcessTable)
	assert.Zero(t, table.Processes[10].CPUPercent)
	assert.Len(t, table.Processes[10].CPUHistory, 1, "history restarts for a reused pid")
}

func TestProcessDeriverVanishedPIDLeavesNoState(t *testing.T) {
	d := NewProcessDeriver(1)
	d.Derive(procReading(t0,
		models.ProcessCounters{PID: 1, StartTime: 1},
		models.ProcessCounters{PID: 2, PPID: 1, StartTime: 1},
	))
	assert.Equal(t, []int32{1, 2}, d.Tracked())

	payload, err := d.Derive(procReading(t0.Add(time.Second), models.ProcessCounters{PID: 1, StartTime: 1}))
	require.NoError(t, err)
	table := payload.(*models.ProcessTable)

	assert.NotContains(t, table.Processes, int32(2))
	assert.Equal(t, []int32{1}, d.Tracked())
	assert.Equal(t, 1, table.Counts.Total)
}

func TestDeriverRejectsWrongReading(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, sub := range models.Subsystems {
		d := NewDeriver(sub, cfg)
		require.NotNil(t, d, sub.String())

		var wrong models.Reading = &models.MemoryReading{}
		if sub == models.Memory {
			wrong = &models.CPUReading{}
		}
		_, err := d.Derive(wrong)
		assert.Error(t, err, sub.String())
	}
}
