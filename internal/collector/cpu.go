package collector

import (
	"context"
	"strings"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
)

// CPUReader reads per-core tick counters.
type CPUReader struct {
	cache *InfoCache
	now   clock

	times func(ctx context.Context, percpu bool) ([]cpu.TimesStat, error)
	info  func(ctx context.Context) ([]cpu.InfoStat, error)
	temps func(ctx context.Context) ([]host.TemperatureStat, error)
}

func NewCPUReader(cache *InfoCache) *CPUReader {
	return &CPUReader{
		cache: cache,
		now:   time.Now,
		times: cpu.TimesWithContext,
		info:  cpu.InfoWithContext,
		temps: host.SensorsTemperaturesWithContext,
	}
}

func (r *CPUReader) Subsystem() models.Subsystem { return models.CPU }

func (r *CPUReader) Read(ctx context.Context) (models.Reading, error) {
	stats, err := r.times(ctx, true)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrReadTransient, "Failed to read cpu times", "")
	}
	if len(stats) == 0 {
		return nil, errors.New(errors.ErrReadTransient, "No cpu times reported", "")
	}

	reading := &models.CPUReading{
		At:    r.now(),
		Cores: make([]models.CPUTicks, len(stats)),
	}
	for i, s := range stats {
		reading.Cores[i] = coreTicks(s)
	}

	reading.Model, reading.MHz = r.cpuInfo(ctx)
	reading.TempC, reading.HasTemp = r.temperature(ctx)

	return reading, nil
}

// coreTicks splits a core's times into active and total. Guest time is
// already included in user time on Linux so it is left out of the total;
// iowait counts as idle.
func coreTicks(t cpu.TimesStat) models.CPUTicks {
	idle := t.Idle + t.Iowait
	active := t.User + t.Nice + t.System + t.Irq + t.Softirq + t.Steal
	return models.CPUTicks{Active: active, Total: active + idle}
}

func (r *CPUReader) cpuInfo(ctx context.Context) (string, float64) {
	model, modelOK := r.cache.Model()
	mhz, mhzOK := r.cache.Frequency()
	if modelOK && mhzOK {
		return model, mhz
	}

	infos, err := r.info(ctx)
	if err != nil || len(infos) == 0 {
		if model == "" {
			model = "Unknown CPU"
		}
		return model, mhz
	}

	model = strings.TrimSpace(infos[0].ModelName)
	if model == "" {
		model = "Unknown CPU"
	}
	mhz = sanitizeMHz(infos[0].Mhz)
	r.cache.SetModel(model)
	r.cache.SetFrequency(mhz)
	return model, mhz
}

func sanitizeMHz(mhz float64) float64 {
	if mhz <= 0 || mhz > 20000 {
		return 0
	}
	return mhz
}

// temperature returns the hottest cpu-like sensor. Sensors are optional.
func (r *CPUReader) temperature(ctx context.Context) (float64, bool) {
	if temp, has, ok := r.cache.Temperature(); ok {
		return temp, has
	}

	sensors, _ := r.temps(ctx)
	var best, hottest float64
	var found bool
	for _, s := range sensors {
		if s.Temperature <= 0 || s.Temperature > 150 {
			continue
		}
		key := strings.ToLower(s.SensorKey)
		if strings.Contains(key, "core") || strings.Contains(key, "package") ||
			strings.Contains(key, "k10temp") || strings.Contains(key, "cpu") {
			best = max(best, s.Temperature)
			found = true
		}
		hottest = max(hottest, s.Temperature)
	}
	if !found && hottest > 0 {
		best, found = hottest, true
	}

	r.cache.SetTemperature(best, found)
	return best, found
}
