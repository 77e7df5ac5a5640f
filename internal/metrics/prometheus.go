package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exporter holds the Prometheus gauge collectors for the metrics pipeline.
type Exporter struct {
	snr           prometheus.Gauge
	signalStrength prometheus.Gauge
	ber           prometheus.Gauge
	packetSuccess prometheus.Gauge
	bandwidthOcc  prometheus.Gauge
	jammingPower  prometheus.Gauge
	connectedClients prometheus.Gauge
}

// NewExporter registers the rangesdr metrics gauges with the default
// Prometheus registry.
func NewExporter() *Exporter {
	return &Exporter{
		snr: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "rangesdr",
			Subsystem: "metrics",
			Name:      "snr_db",
			Help:      "Signal-to-noise ratio of the most recent chunk, in dB.",
		}),
		signalStrength: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "rangesdr",
			Subsystem: "metrics",
			Name:      "signal_strength_dbm",
			Help:      "Estimated signal strength of the most recent chunk, in dBm.",
		}),
		ber: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "rangesdr",
			Subsystem: "metrics",
			Name:      "bit_error_rate",
			Help:      "Modeled bit error rate derived from SNR.",
		}),
		packetSuccess: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "rangesdr",
			Subsystem: "metrics",
			Name:      "packet_success_ratio",
			Help:      "Modeled 1000-bit packet success probability.",
		}),
		bandwidthOcc: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "rangesdr",
			Subsystem: "metrics",
			Name:      "bandwidth_occupancy_ratio",
			Help:      "Fraction of FFT bins within 20 dB of the spectral peak.",
		}),
		jammingPower: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "rangesdr",
			Subsystem: "jammer",
			Name:      "amplitude",
			Help:      "Current jammer linear amplitude, as last reported by the control plane.",
		}),
		connectedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "rangesdr",
			Subsystem: "dongle",
			Name:      "connected_clients",
			Help:      "Number of sessions currently connected to the dongle server.",
		}),
	}
}

// Observe pushes one Record's fields to their gauges.
func (e *Exporter) Observe(r Record) {
	e.snr.Set(r.SNRdB)
	e.signalStrength.Set(r.SignalStrengthdB)
	e.ber.Set(r.BER)
	e.packetSuccess.Set(r.PacketSuccess)
	e.bandwidthOcc.Set(r.BandwidthOcc)
}

// SetJammingPower records the jammer's current amplitude.
func (e *Exporter) SetJammingPower(amplitude float64) {
	e.jammingPower.Set(amplitude)
}

// SetConnectedClients records the dongle server's current session count.
func (e *Exporter) SetConnectedClients(n int) {
	e.connectedClients.Set(float64(n))
}
