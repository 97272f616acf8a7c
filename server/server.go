package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/blixt/tagstream/config"
	"github.com/blixt/tagstream/syncbuffer"
	"github.com/blixt/tagstream/tagstream"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server parses streams sent over WebSocket connections to /stream and sends
// the updates back on the same connection.
type Server struct {
	cfg    func() *config.Config
	log    zerolog.Logger
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
	sessions map[*session]struct{}
}

// New returns a server that reads its config from cfg for every new
// connection, so a reloaded config applies to the streams that follow.
func New(cfg func() *config.Config, log zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		log:      log,
		sessions: make(map[*session]struct{}),
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", s.handleStream)
	return mux
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	cfg := s.cfg()
	bufferSize := cfg.Server.BufferSize
	if bufferSize == 0 {
		bufferSize = config.Default().Server.BufferSize
	}
	log := s.log.With().Str("session", uuid.NewString()).Logger()
	sess := &session{
		conn: conn,
		buf:  syncbuffer.New(bufferSize),
		log:  log,
	}

	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		sess.close()
	}()

	log.Info().Str("remote", r.RemoteAddr).Msg("stream started")
	go sess.handleMessages()

	parts, err := sess.run(tagstream.New(cfg.ParserOptions(log)...))
	if err != nil {
		log.Warn().Err(err).Msg("stream failed")
		return
	}
	log.Info().Int("parts", len(parts)).Int("tags", len(tagstream.Tags(parts))).Msg("stream done")
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("server stopped")
		}
	}()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	return nil
}

// Addr returns the address the server is listening on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close stops the server and ends all open streams.
func (s *Server) Close() error {
	err := s.server.Close()
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
	return err
}
