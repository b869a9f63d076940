package collector

import (
	"context"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/spf13/afero"
)

// DefaultPowerSupplyDir is where Linux exposes batteries.
const DefaultPowerSupplyDir = "/sys/class/power_supply"

// BatteryReader reads the first battery found under the power supply
// directory. Values in sysfs are micro-units (µWh, µW, µAh, µA, µV).
type BatteryReader struct {
	fs   afero.Fs
	root string
	now  clock
}

func NewBatteryReader(fs afero.Fs, root string) *BatteryReader {
	return &BatteryReader{fs: fs, root: root, now: time.Now}
}

func (r *BatteryReader) Subsystem() models.Subsystem { return models.Battery }

func (r *BatteryReader) Read(ctx context.Context) (models.Reading, error) {
	dirs, err := afero.Glob(r.fs, path.Join(r.root, "BAT*"))
	if err != nil || len(dirs) == 0 {
		// No battery found (desktop system)
		return nil, errors.ErrUnavailable
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if present, ok := r.readFloat(dir, "present"); ok && present == 0 {
			continue
		}
		return r.readBattery(dir), nil
	}
	return nil, errors.ErrUnavailable
}

func (r *BatteryReader) readBattery(dir string) *models.BatteryReading {
	reading := &models.BatteryReading{
		At:     r.now(),
		Name:   path.Base(dir),
		Status: r.readStatus(dir),
	}

	if capacity, ok := r.readFloat(dir, "capacity"); ok {
		reading.Percent = capacity
	}

	if now, ok := r.readFloat(dir, "energy_now"); ok {
		reading.EnergyNow = now / 1e6
		reading.EnergyFull, _ = r.readFloat(dir, "energy_full")
		reading.EnergyFull /= 1e6
		reading.EnergyFullDesign, _ = r.readFloat(dir, "energy_full_design")
		reading.EnergyFullDesign /= 1e6
	} else if now, ok := r.readFloat(dir, "charge_now"); ok {
		// Charge-based batteries: convert µAh to Wh with the present voltage.
		volts := r.voltage(dir)
		full, _ := r.readFloat(dir, "charge_full")
		design, _ := r.readFloat(dir, "charge_full_design")
		reading.EnergyNow = now / 1e6 * volts
		reading.EnergyFull = full / 1e6 * volts
		reading.EnergyFullDesign = design / 1e6 * volts
	}

	if power, ok := r.readFloat(dir, "power_now"); ok {
		reading.PowerNow = power / 1e6
	} else if current, ok := r.readFloat(dir, "current_now"); ok {
		reading.PowerNow = current / 1e6 * r.voltage(dir)
	}
	if reading.PowerNow < 0 {
		reading.PowerNow = -reading.PowerNow
	}

	if reading.Percent == 0 && reading.EnergyFull > 0 {
		reading.Percent = reading.EnergyNow / reading.EnergyFull * 100
	}
	return reading
}

func (r *BatteryReader) voltage(dir string) float64 {
	if v, ok := r.readFloat(dir, "voltage_now"); ok && v > 0 {
		return v / 1e6
	}
	return 0
}

func (r *BatteryReader) readStatus(dir string) models.BatteryStatus {
	content, err := afero.ReadFile(r.fs, path.Join(dir, "status"))
	if err != nil {
		return models.BatteryUnknown
	}
	switch s := models.BatteryStatus(strings.TrimSpace(string(content))); s {
	case models.BatteryCharging, models.BatteryDischarging, models.BatteryFull, models.BatteryNotCharging:
		return s
	default:
		return models.BatteryUnknown
	}
}

func (r *BatteryReader) readFloat(dir, name string) (float64, bool) {
	content, err := afero.ReadFile(r.fs, path.Join(dir, name))
	if err != nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(string(content)), 64)
	if err != nil {
		return 0, false
	}
	return val, true
}
