// Package server implements the TCP accept loop and per-connection
// goroutine driving the protocol state machine: consume a byte stream,
// produce a byte stream.
package server

import (
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/armandparker/cachesrv/internal/cache"
	"github.com/armandparker/cachesrv/internal/config"
	"github.com/armandparker/cachesrv/internal/protocol"
)

// Server owns the shared cache engine and the TCP listener. One goroutine
// per accepted connection runs an independent protocol.StateMachine
// against the same engine, serialized through internal/cache.Engine's
// RWMutex.
type Server struct {
	cfg        *config.Config
	engine     *cache.Engine
	dispatcher *protocol.Dispatcher

	mu       sync.Mutex
	listener net.Listener
	running  atomic.Bool
	wg       sync.WaitGroup
}

// New constructs a Server bound to the given configuration and cache
// engine.
func New(cfg *config.Config, engine *cache.Engine) *Server {
	return &Server{
		cfg:        cfg,
		engine:     engine,
		dispatcher: protocol.NewDispatcher(engine),
	}
}

// Start binds the listener and runs the accept loop until Stop is
// called; an Accept error while the server is running is logged and the
// loop goes on. Once the loop ends, Start waits for every open
// connection to close before returning. It blocks the calling
// goroutine.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.running.Store(true)

	log.Info().Str("addr", addr).Msg("cachesrv listening")

	for s.running.Load() {
		conn, err := listener.Accept()
		if err != nil {
			if s.running.Load() {
				log.Error().Err(err).Msg("accept error")
				continue
			}
			break
		}

		if tcp, ok := conn.(*net.TCPConn); ok {
			tcp.SetNoDelay(true)
			_ = tcp.SetKeepAlive(s.cfg.TCPKeepAlive)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}

	s.wg.Wait()
	return nil
}

// Stop closes the listener, unblocking Accept in Start, and returns
// without waiting. Open connections are not closed by Stop.
func (s *Server) Stop() {
	s.running.Store(false)

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
	}
}

// handleConnection drives one connection's protocol.StateMachine until
// the client disconnects. Connection drop at any point is safe: the
// state machine's buffers and any pending command are simply discarded.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	log.Debug().Str("remote", remote).Msg("connection opened")

	sm := protocol.NewStateMachine(s.dispatcher)
	buf := make([]byte, 4096)

	for {
		if s.cfg.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}

		n, err := conn.Read(buf)
		if n > 0 {
			out := sm.Feed(buf[:n])
			if len(out) > 0 {
				if s.cfg.WriteTimeout > 0 {
					conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
				}
				if _, werr := conn.Write(out); werr != nil {
					log.Debug().Str("remote", remote).Err(werr).Msg("write error")
					return
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Debug().Str("remote", remote).Err(err).Msg("read error")
			}
			break
		}
	}

	log.Debug().Str("remote", remote).Msg("connection closed")
}
