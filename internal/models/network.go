package models

import "time"

type InterfaceCounters struct {
	Name      string `json:"name"`
	RxBytes   uint64 `json:"rx_bytes"`
	TxBytes   uint64 `json:"tx_bytes"`
	RxPackets uint64 `json:"rx_packets"`
	TxPackets uint64 `json:"tx_packets"`
}

type NetworkReading struct {
	At         time.Time
	Interfaces []InterfaceCounters
}

func (r *NetworkReading) Subsystem() Subsystem  { return Network }
func (r *NetworkReading) CapturedAt() time.Time { return r.At }

// NetworkRate is the per-second throughput of one interface in bytes.
type NetworkRate struct {
	Name      string     `json:"name"`
	Rx        RateSample `json:"rx"`
	Tx        RateSample `json:"tx"`
	RxTotal   uint64     `json:"rx_total"`
	TxTotal   uint64     `json:"tx_total"`
	RxHistory []float64  `json:"rx_history"`
	TxHistory []float64  `json:"tx_history"`
}

type NetworkSummary struct {
	Interfaces map[string]NetworkRate `json:"interfaces"`
	Rx         RateSample             `json:"rx"`
	Tx         RateSample             `json:"tx"`
	RxHistory  []float64              `json:"rx_history"`
	TxHistory  []float64              `json:"tx_history"`
}
