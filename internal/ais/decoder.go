// Package ais decodes maritime Automatic Identification System messages
// from a demodulated bit stream: preamble hunting, bit destuffing, CRC
// validation, and per-MMSI ship tracking with dead-reckoning position
// updates (spec §4.7-§4.9).
package ais

import (
	"math"
	"math/rand"
)

// Channel frequencies and modulation parameters (spec §4.7).
const (
	ChannelA   = 161_975_000
	ChannelB   = 162_025_000
	BaudRate   = 9600
	Deviation  = 4800
	minPacket  = 256
	preambleLn = 24
)

var candidateLengths = []int{168, 256, 424}

// Ship is the tracked state for one vessel, keyed by MMSI.
type Ship struct {
	MMSI    uint32
	Name    string
	Type    string
	Lat     float64
	Lon     float64
	SpeedKn float64
	Heading float64
}

var vesselTypes = [3]string{"Cargo", "Tanker", "Passenger"}

// Report is one decoded position report, emitted to observers.
type Report struct {
	MessageID      int     `json:"message_id"`
	MMSI           uint32  `json:"mmsi"`
	ShipName       string  `json:"ship_name"`
	VesselType     string  `json:"vessel_type"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	SpeedKnots     float64 `json:"speed_knots"`
	HeadingDegrees int     `json:"heading_degrees"`
	LengthMeters   int     `json:"length_meters"`
	SignalQuality  string  `json:"signal_quality"`
}

// Decoder tracks a bit buffer across calls to Decode and maintains
// per-MMSI ship state for dead-reckoning updates.
type Decoder struct {
	bitBuffer    []int
	ships        map[uint32]*Ship
	messageCount int
	rng          *rand.Rand
}

// NewDecoder returns a Decoder with an empty bit buffer and ship table.
func NewDecoder() *Decoder {
	return &Decoder{
		ships: make(map[uint32]*Ship),
		rng:   rand.New(rand.NewSource(1)),
	}
}

// Feed appends newly recovered, NRZI-decoded, destuffed bits to the
// internal buffer and attempts to extract as many complete packets as
// possible, returning any position reports decoded along the way.
// jammingPower in [0, 1] scales injected bit-error probability and the
// reported signal-quality tier, mirroring the original's jamming model.
func (d *Decoder) Feed(bits []int, jammingPower float64) []Report {
	d.bitBuffer = append(d.bitBuffer, bits...)

	var reports []Report
	for len(d.bitBuffer) >= minPacket {
		pos, found := findPreamble(d.bitBuffer)
		if !found {
			if len(d.bitBuffer) > minPacket {
				d.bitBuffer = d.bitBuffer[len(d.bitBuffer)-minPacket:]
			}
			break
		}

		packetStart := pos + preambleLn
		if len(d.bitBuffer) < packetStart+168 {
			break
		}

		decoded := false
		for _, length := range candidateLengths {
			if len(d.bitBuffer) < packetStart+length {
				continue
			}
			packetBits := append([]int(nil), d.bitBuffer[packetStart:packetStart+length]...)
			if report, ok := d.decodePacket(packetBits, jammingPower); ok {
				reports = append(reports, report)
				d.bitBuffer = d.bitBuffer[packetStart+length:]
				decoded = true
				break
			}
		}
		if !decoded {
			d.bitBuffer = d.bitBuffer[pos+1:]
		}
	}
	return reports
}

// findPreamble scans for a 24-bit alternating 0/1/0/1... pattern.
func findPreamble(bits []int) (int, bool) {
	for i := 0; i <= len(bits)-preambleLn; i++ {
		ok := true
		for j := 0; j < preambleLn; j++ {
			if bits[i+j] != j%2 {
				ok = false
				break
			}
		}
		if ok {
			return i, true
		}
	}
	return 0, false
}

func (d *Decoder) decodePacket(bits []int, jammingPower float64) (Report, bool) {
	if jammingPower > 0 {
		errProb := jammingPower * 0.1
		for i := range bits {
			if d.rng.Float64() < errProb {
				bits[i] = 1 - bits[i]
			}
		}
	}

	if !VerifyCRC(bits) {
		return Report{}, false
	}

	if len(bits) < 38 {
		return Report{}, false
	}

	msgType := bitsToUint(bits[0:6])
	if msgType < 1 || msgType > 3 || len(bits) < 168 {
		return Report{}, false
	}

	mmsi := uint32(bitsToUint(bits[8:38]))
	d.messageCount++

	ship, ok := d.ships[mmsi]
	if !ok {
		ship = &Ship{
			MMSI:    mmsi,
			Name:    shipName(mmsi),
			Type:    vesselTypes[mmsi%3],
			Lat:     -33.8688 + d.rng.NormFloat64()*0.1,
			Lon:     151.2093 + d.rng.NormFloat64()*0.1,
			SpeedKn: 10.0,
			Heading: d.rng.Float64() * 360,
		}
		d.ships[mmsi] = ship
	}

	advanceDeadReckoning(ship, d.rng)

	quality := "GOOD"
	switch {
	case jammingPower > 0.7:
		quality = "POOR"
	case jammingPower > 0.3:
		quality = "FAIR"
	}

	return Report{
		MessageID:      d.messageCount,
		MMSI:           mmsi,
		ShipName:       ship.Name,
		VesselType:     ship.Type,
		Latitude:       round6(ship.Lat),
		Longitude:      round6(ship.Lon),
		SpeedKnots:     math.Round(ship.SpeedKn*10) / 10,
		HeadingDegrees: int(ship.Heading) % 360,
		LengthMeters:   150 + int(mmsi%100),
		SignalQuality:  quality,
	}, true
}

// advanceDeadReckoning projects ship position forward by one update tick
// (~1s) at its current heading and speed, with small random drift,
// matching the original simulator's motion model.
func advanceDeadReckoning(ship *Ship, rng *rand.Rand) {
	headingRad := ship.Heading * math.Pi / 180
	distanceNM := ship.SpeedKn / 3600
	distanceDegLat := distanceNM / 60
	distanceDegLon := distanceNM / (60 * math.Cos(ship.Lat*math.Pi/180))

	ship.Lat += distanceDegLat * math.Cos(headingRad)
	ship.Lon += distanceDegLon * math.Sin(headingRad)

	ship.Lat += rng.NormFloat64() * 0.0001
	ship.Lon += rng.NormFloat64() * 0.0001
	ship.Heading += rng.NormFloat64() * 2
}

func shipName(mmsi uint32) string {
	return "VESSEL-" + itoa(mmsi%10000)
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func bitsToUint(bits []int) uint32 {
	var v uint32
	for _, b := range bits {
		v = (v << 1) | uint32(b)
	}
	return v
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
