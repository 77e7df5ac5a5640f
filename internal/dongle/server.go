package dongle

import (
	"encoding/binary"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"hz.tools/rf"
	"hz.tools/sdr"
)

// Tuning is the tuning state shared between DongleServer's command parser
// and the Mixer's passband predicate (spec §3).
type Tuning struct {
	CenterFreq rf.Hz
	SampleRate uint
}

// TuningListener is invoked whenever a client retunes the receiver. It is
// called synchronously from the accepting session's goroutine, so
// implementations must be cheap and non-blocking (typically just updating
// a snapshot consumed by the pipeline at the top of its next chunk, per
// spec §5's single-writer/single-reader discipline).
type TuningListener func(Tuning)

// Session is one connected dongle client.
type Session struct {
	id   uuid.UUID
	conn net.Conn
}

// Server is the DongleServer component: it accepts TCP clients, sends the
// capability header, parses inbound command records, and broadcasts
// quantized sample chunks to every connected session without waiting for
// any one socket to drain (spec §4.4, §9 "fan-out without drain").
type Server struct {
	addr string

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	tuning   Tuning

	onTuning TuningListener

	listener net.Listener
}

// NewServer returns a Server bound to addr (e.g. ":1234"), with an initial
// tuning state.
func NewServer(addr string, initial Tuning) *Server {
	return &Server{
		addr:     addr,
		sessions: make(map[uuid.UUID]*Session),
		tuning:   initial,
	}
}

// OnTuningChange registers the listener invoked on every retune command.
func (s *Server) OnTuningChange(l TuningListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTuning = l
}

// Tuning returns the current shared tuning state.
func (s *Server) Tuning() Tuning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tuning
}

// ClientCount returns the number of currently connected sessions.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Serve accepts connections until the listener is closed. Accept errors
// are logged and retried after a short delay (spec §4.4); it is intended
// to run in its own goroutine for the lifetime of the process.
func (s *Server) Serve() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	log.Printf("[dongle] listening on %s", s.addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && !ne.Temporary() {
				return err
			}
			log.Printf("[dongle] accept error: %v", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		go s.handleSession(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handleSession(conn net.Conn) {
	id := uuid.New()
	sess := &Session{id: id, conn: conn}

	if err := writeHeader(conn); err != nil {
		log.Printf("[dongle] header write failed for %s: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	log.Printf("[dongle] client connected: %s", conn.RemoteAddr())

	s.readCommands(sess)

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	conn.Close()
	log.Printf("[dongle] client disconnected: %s", conn.RemoteAddr())
}

func writeHeader(conn net.Conn) error {
	var hdr [HeaderSize]byte
	copy(hdr[0:4], Magic)
	binary.BigEndian.PutUint32(hdr[4:8], TunerType)
	binary.BigEndian.PutUint32(hdr[8:12], GainStages)
	_, err := conn.Write(hdr[:])
	return err
}

// readCommands consumes fixed 5-byte command records until the peer
// closes or a short read occurs (spec §4.4).
func (s *Server) readCommands(sess *Session) {
	buf := make([]byte, CommandSize)
	for {
		if _, err := readFull(sess.conn, buf); err != nil {
			return
		}
		s.dispatchCommand(buf[0], binary.BigEndian.Uint32(buf[1:5]))
	}
}

func (s *Server) dispatchCommand(cmd byte, param uint32) {
	switch cmd {
	case CmdSetFrequency:
		s.mu.Lock()
		s.tuning.CenterFreq = rf.Hz(param)
		tuning := s.tuning
		listener := s.onTuning
		s.mu.Unlock()
		if listener != nil {
			listener(tuning)
		}
	case CmdSetSampleRate:
		s.mu.Lock()
		s.tuning.SampleRate = uint(param)
		tuning := s.tuning
		listener := s.onTuning
		s.mu.Unlock()
		if listener != nil {
			listener(tuning)
		}
	case CmdSetGainMode, CmdSetGain, CmdSetFreqCorrection:
		// Accepted, no effect: file playback has no physical gain stage.
	default:
		log.Printf("[dongle] ignoring unknown command byte %#02x", cmd)
	}
}

// readFull reads exactly len(buf) bytes, treating any short read
// (including a half-close) as session termination.
func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Broadcast quantizes chunk to interleaved I/Q bytes and writes it to every
// connected session without awaiting drain. Each write has a 10 ms
// deadline, so a slow peer whose socket cannot take the payload in time
// fails its write instead of stalling the caller; a write error drops that
// session from the active set (spec §4.4, §9).
func (s *Server) Broadcast(chunk sdr.SamplesC64) {
	payload := make([]byte, len(chunk)*2)
	for i, c := range chunk {
		payload[2*i] = Quantize(real(c))
		payload[2*i+1] = Quantize(imag(c))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.conn.SetWriteDeadline(time.Now().Add(10 * time.Millisecond))
		if _, err := sess.conn.Write(payload); err != nil {
			sess.conn.Close()
			delete(s.sessions, id)
		}
	}
}
