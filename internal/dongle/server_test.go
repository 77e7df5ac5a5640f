package dongle

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"hz.tools/rf"
)

func TestWireHeaderConstancy(t *testing.T) {
	srv := NewServer("127.0.0.1:0", Tuning{CenterFreq: rf.Hz(100_000_000), SampleRate: 1_024_000})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv.listener = ln

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		srv.handleSession(conn)
	}()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hdr := make([]byte, HeaderSize)
	if _, err := io.ReadFull(conn, hdr); err != nil {
		t.Fatalf("reading header: %v", err)
	}

	if string(hdr[0:4]) != Magic {
		t.Fatalf("expected magic %q, got %q", Magic, hdr[0:4])
	}
	if got := binary.BigEndian.Uint32(hdr[4:8]); got != TunerType {
		t.Fatalf("expected tuner type %d, got %d", TunerType, got)
	}
	if got := binary.BigEndian.Uint32(hdr[8:12]); got != GainStages {
		t.Fatalf("expected gain stages %d, got %d", GainStages, got)
	}
}
