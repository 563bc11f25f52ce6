package net

import (
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Server accepts TCP connections and hands them to the world as Conns. Each
// accepted connection gets its own player actor; the accept loop never
// blocks on a slow consumer.
type Server struct {
	listener net.Listener
	nextID   atomic.Uint64
	newConns chan *Conn

	inSize       int
	outSize      int
	pktPerSec    int
	writeTimeout time.Duration

	log     *zap.Logger
	closeCh chan struct{}
}

func NewServer(bindAddr string, inSize, outSize, pktPerSec int, writeTimeout time.Duration, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:     ln,
		newConns:     make(chan *Conn, 64),
		inSize:       inSize,
		outSize:      outSize,
		pktPerSec:    pktPerSec,
		writeTimeout: writeTimeout,
		log:          log,
		closeCh:      make(chan struct{}),
	}, nil
}

// AcceptLoop runs in its own goroutine. It accepts connections, starts their
// I/O goroutines, and pushes them onto the newConns channel.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := s.nextID.Add(1)
		c := NewConn(conn, id, s.inSize, s.outSize, s.pktPerSec, s.writeTimeout, s.log)
		c.Start()

		s.log.Info("client connected", zap.Uint64("conn", id), zap.String("ip", c.IP))

		select {
		case s.newConns <- c:
		default:
			s.log.Warn("connection backlog full, refusing client")
			c.Close()
		}
	}
}

// NewConns returns the channel of freshly accepted connections.
func (s *Server) NewConns() <-chan *Conn {
	return s.newConns
}

// Shutdown stops accepting new connections.
func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
