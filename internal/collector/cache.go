package collector

import (
	"sync"
	"time"
)

// cache durations
const (
	ModelCacheDuration       = 24 * time.Hour
	FrequencyCacheDuration   = 30 * time.Second
	TemperatureCacheDuration = 5 * time.Second
)

// InfoCache holds slow-changing CPU facts so the CPU reader does not hit
// cpuinfo and the sensors on every tick.
type InfoCache struct {
	mutex sync.RWMutex
	now   clock

	// static info (rarely changes)
	model     string
	modelTime time.Time

	frequency     float64
	frequencyTime time.Time

	temperature     float64
	hasTemperature  bool
	temperatureTime time.Time
}

func NewInfoCache() *InfoCache {
	return &InfoCache{now: time.Now}
}

// Model returns the cached model name, if still valid.
func (c *InfoCache) Model() (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.model, c.model != "" && c.now().Sub(c.modelTime) < ModelCacheDuration
}

func (c *InfoCache) SetModel(model string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.model = model
	c.modelTime = c.now()
}

func (c *InfoCache) Frequency() (float64, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.frequency, c.frequency != 0 && c.now().Sub(c.frequencyTime) < FrequencyCacheDuration
}

func (c *InfoCache) SetFrequency(mhz float64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.frequency = mhz
	c.frequencyTime = c.now()
}

// Temperature returns the cached reading. A cached "no sensor" result is
// valid too, so ok can be true while has is false.
func (c *InfoCache) Temperature() (temp float64, has bool, ok bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	valid := !c.temperatureTime.IsZero() && c.now().Sub(c.temperatureTime) < TemperatureCacheDuration
	return c.temperature, c.hasTemperature, valid
}

func (c *InfoCache) SetTemperature(temp float64, has bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.temperature = temp
	c.hasTemperature = has
	c.temperatureTime = c.now()
}

func (c *InfoCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.model = ""
	c.frequency = 0
	c.temperature = 0
	c.hasTemperature = false
	c.modelTime = time.Time{}
	c.frequencyTime = time.Time{}
	c.temperatureTime = time.Time{}
}
