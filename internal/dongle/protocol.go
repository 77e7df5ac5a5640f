// Package dongle implements the rtl_tcp-compatible dongle-emulation
// protocol: a TCP header handshake, a 5-byte command record stream, and an
// unframed quantized I/Q sample broadcast. Server is the listener side
// consumed by SDR clients (e.g. gqrx); Client is the StreamClient side used
// by the decoder processes.
package dongle

import "math"

// Magic is the 4-byte header magic sent on connect.
const Magic = "RTL0"

// TunerType and GainStages are the fixed capability values advertised in
// the header (spec §4.4): tuner type 1 (E4000 in rtl-sdr's tuner
// enumeration), 29 gain stages.
const (
	TunerType  uint32 = 1
	GainStages uint32 = 29
)

// HeaderSize is the number of bytes in the initial capability header.
const HeaderSize = 12

// Command bytes recognized by the server, per spec §4.4.
const (
	CmdSetFrequency        byte = 0x01
	CmdSetSampleRate       byte = 0x02
	CmdSetGainMode         byte = 0x03
	CmdSetGain             byte = 0x04
	CmdSetFreqCorrection   byte = 0x05
)

// CommandSize is the length of one command record: 1 command byte plus a
// big-endian uint32 parameter.
const CommandSize = 5

// Quantize clips v to [-1, 1] and maps it to a byte via
// byte = clip(v*127.5 + 127.5, 0, 255), the wire format for one I or Q
// rail (spec §3).
func Quantize(v float32) byte {
	if v < -1 {
		v = -1
	} else if v > 1 {
		v = 1
	}
	u := float64(v)*127.5 + 127.5
	u = math.Round(u)
	if u < 0 {
		u = 0
	} else if u > 255 {
		u = 255
	}
	return byte(u)
}

// Dequantize reverses Quantize: (u - 127.5) / 127.5.
func Dequantize(u byte) float32 {
	return (float32(u) - 127.5) / 127.5
}
