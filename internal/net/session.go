package net

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Conn owns one client socket. Network I/O runs in dedicated goroutines; the
// player actor consumes decoded frames from InQueue and queues outbound
// bodies with Send. Obfuscation state lives here because both loops need it.
type Conn struct {
	ID   uint64
	conn net.Conn

	cipher Cipher

	InQueue  chan []byte // decoded packet bodies, read by the player actor
	OutQueue chan []byte // plain bodies, encoded + framed by writeLoop

	IP string // remote host without port, for bans and the connection log

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	// Per-second packet rate limiter (readLoop goroutine only, no lock needed)
	pktPerSec  int
	pktCount   int
	pktResetAt int64

	writeTimeout time.Duration

	log *zap.Logger
}

func NewConn(conn net.Conn, id uint64, inSize, outSize, pktPerSec int, writeTimeout time.Duration, log *zap.Logger) *Conn {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}
	return &Conn{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan []byte, inSize),
		OutQueue:     make(chan []byte, outSize),
		IP:           host,
		closeCh:      make(chan struct{}),
		pktPerSec:    pktPerSec,
		writeTimeout: writeTimeout,
		log:          log.With(zap.Uint64("conn", id)),
	}
}

// Start launches the reader and writer goroutines. Unlike the init-packet
// protocols, this wire speaks client-first: nothing is written until the
// client's Init request arrives.
func (c *Conn) Start() {
	go c.readLoop()
	go c.writeLoop()
}

// SetMultiples installs the handshake swap multiples. Must be called from
// the player actor before the init reply is queued; the reply itself still
// goes out unobfuscated because the client applies the multiples only after
// confirming them.
func (c *Conn) SetMultiples(server, client byte) {
	c.cipher.SetMultiples(server, client)
}

// Multiples returns the current (server, client) swap multiples.
func (c *Conn) Multiples() (byte, byte) {
	return c.cipher.Multiples()
}

// Send queues a packet body for transmission. Non-blocking: a full queue
// means the client cannot keep up and the connection is dropped.
func (c *Conn) Send(body []byte) {
	if c.closed.Load() {
		return
	}
	select {
	case c.OutQueue <- body:
	default:
		c.log.Warn("send queue full, dropping slow client")
		c.Close()
	}
}

// SendRaw writes a body immediately, framed but never obfuscated. Used for
// the init reply, which the client reads before enabling the cipher.
func (c *Conn) SendRaw(body []byte) {
	if c.closed.Load() {
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := WriteFrame(c.conn, body); err != nil {
		if !c.closed.Load() {
			c.log.Debug("raw write error", zap.Error(err))
		}
		c.Close()
	}
}

// Close shuts the connection down. Safe to call from any goroutine, any
// number of times.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closeCh)
		c.conn.Close()
	})
}

func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

// Closed returns a channel that is closed when the connection dies.
func (c *Conn) Closed() <-chan struct{} {
	return c.closeCh
}

// readLoop reads frames, de-obfuscates them, and pushes decoded bodies onto
// InQueue for the player actor.
func (c *Conn) readLoop() {
	defer c.Close()

	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		payload, err := ReadFrame(c.conn)
		if err != nil {
			if !c.closed.Load() {
				c.log.Debug("read error", zap.Error(err))
			}
			return
		}

		body := c.cipher.Decode(payload)

		if c.pktPerSec > 0 {
			now := time.Now().Unix()
			if now != c.pktResetAt {
				c.pktCount = 0
				c.pktResetAt = now
			}
			c.pktCount++
			if c.pktCount > c.pktPerSec {
				c.log.Warn("packet rate exceeded, dropping connection", zap.Int("pps", c.pktCount))
				return
			}
		}

		// Block until the actor drains the queue or the session closes.
		// Dropping movement packets desyncs server-tracked position, so
		// backpressure lands on this client's own reader only.
		select {
		case c.InQueue <- body:
		case <-c.closeCh:
			return
		}
	}
}

// writeLoop encodes queued bodies and writes them as frames.
func (c *Conn) writeLoop() {
	defer c.Close()

	for {
		select {
		case body := <-c.OutQueue:
			encoded := c.cipher.Encode(body)
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := WriteFrame(c.conn, encoded); err != nil {
				if !c.closed.Load() {
					c.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-c.closeCh:
			return
		}
	}
}
