package collector

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/prabalesh/brtop/internal/errors"
	"github.com/prabalesh/brtop/internal/models"
	"github.com/shirou/gopsutil/v3/net"
)

type NetworkReader struct {
	includeLoopback bool
	now             clock
	counters        func(ctx context.Context, pernic bool) ([]net.IOCountersStat, error)
}

func NewNetworkReader(includeLoopback bool) *NetworkReader {
	return &NetworkReader{
		includeLoopback: includeLoopback,
		now:             time.Now,
		counters:        net.IOCountersWithContext,
	}
}

func (r *NetworkReader) Subsystem() models.Subsystem { return models.Network }

func (r *NetworkReader) Read(ctx context.Context) (models.Reading, error) {
	stats, err := r.counters(ctx, true)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrReadTransient, "Failed to read network counters", "")
	}

	reading := &models.NetworkReading{At: r.now()}
	for _, s := range stats {
		if !r.includeLoopback && isLoopback(s.Name) {
			continue
		}
		reading.Interfaces = append(reading.Interfaces, models.InterfaceCounters{
			Name:      s.Name,
			RxBytes:   s.BytesRecv,
			TxBytes:   s.BytesSent,
			RxPackets: s.PacketsRecv,
			TxPackets: s.PacketsSent,
		})
	}
	sort.Slice(reading.Interfaces, func(i, j int) bool {
		return reading.Interfaces[i].Name < reading.Interfaces[j].Name
	})

	return reading, nil
}

func isLoopback(name string) bool {
	return name == "lo" || strings.HasPrefix(name, "lo0") || strings.HasPrefix(name, "Loopback")
}
