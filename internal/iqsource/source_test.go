package iqsource

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.iq")

	buf := make([]byte, n*8)
	for i := 0; i < n; i++ {
		iVal := float32(i)
		qVal := float32(-i)
		binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(iVal))
		binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(qVal))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func TestLoopInvariant(t *testing.T) {
	const n = 100
	const chunkSize = 7

	path := writeTestFile(t, n)
	src := New(1000)
	if err := src.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	src.Play()

	numChunks := (n + chunkSize - 1) / chunkSize
	for i := 0; i < numChunks; i++ {
		if _, ok := src.Chunk(chunkSize); !ok {
			t.Fatalf("chunk %d: expected data", i)
		}
	}

	chunk, ok := src.Chunk(chunkSize)
	if !ok {
		t.Fatal("expected chunk after wraparound")
	}
	if real(chunk[0]) != 0 {
		t.Fatalf("expected wraparound to sample 0, got I=%v", real(chunk[0]))
	}
}

func TestLoadNotFound(t *testing.T) {
	src := New(1000)
	if err := src.Load("/nonexistent/path.iq"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.iq")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src := New(1000)
	if err := src.Load(path); err != ErrInvalidFormat {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestPauseReturnsNone(t *testing.T) {
	path := writeTestFile(t, 10)
	src := New(1000)
	_ = src.Load(path)
	src.Play()
	src.Pause()
	if _, ok := src.Chunk(4); ok {
		t.Fatal("expected no chunk while paused")
	}
}
