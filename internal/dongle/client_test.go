package dongle

import (
	"net"
	"testing"
	"time"

	"hz.tools/rf"
)

func TestClientConnectAndChunk(t *testing.T) {
	srv := NewServer("127.0.0.1:0", Tuning{CenterFreq: rf.Hz(100_000_000), SampleRate: 1_024_000})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv.listener = ln

	done := make(chan struct{})
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(done)
			return
		}
		writeHeader(conn)
		conn.Write([]byte{255, 0, 128, 128}) // two quantized samples
		close(done)
	}()

	client := NewClient(ln.Addr().String())
	if err := client.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	<-done
	chunk, err := client.Chunk(2)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if len(chunk) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(chunk))
	}
	if real(chunk[0]) < 0.9 {
		t.Fatalf("expected near +1.0 for u=255, got %v", real(chunk[0]))
	}

	time.Sleep(10 * time.Millisecond) // let server goroutine finish before test exits
}
