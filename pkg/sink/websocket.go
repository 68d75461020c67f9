package sink

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minisock/minisock/pkg/controller"
	"github.com/minisock/minisock/pkg/publisher"
	"go.uber.org/zap"
)

// WebSocketConfig is the decoded spec block of a "websocket" sink entry.
type WebSocketConfig struct {
	Addr string `mapstructure:"addr"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var _ controller.Runnable = &WebSocketSink{}

// NewWebSocketSink returns a Runnable HTTP server on addr that forwards
// every message published on topic to connected /events clients as JSON.
func NewWebSocketSink(
	logger *zap.Logger,
	pub publisher.Publisher,
	topic string,
	addr string,
) *WebSocketSink {
	return &WebSocketSink{
		logger:  logger,
		pub:     pub,
		topic:   topic,
		addr:    addr,
		clients: make(map[*websocket.Conn]bool),
	}
}

type WebSocketSink struct {
	logger *zap.Logger
	pub    publisher.Publisher
	topic  string
	addr   string

	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	boundAddr net.Addr
}

// Addr reports the bound listen address once Start is underway, nil before.
func (s *WebSocketSink) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}

func (s *WebSocketSink) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.boundAddr = ln.Addr()
	s.mu.Unlock()

	subID, err := s.pub.Subscribe(s.topic, s.handleMessage)
	if err != nil {
		_ = ln.Close()
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	srv := &http.Server{Handler: mux}

	shutdown := make(chan struct{})
	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down websocket sink")

		if err := s.pub.Unsubscribe(s.topic, subID); err != nil {
			s.logger.Error("Failed to unsubscribe", zap.Error(err))
		}

		s.mu.Lock()
		for client := range s.clients {
			_ = client.Close()
			delete(s.clients, client)
		}
		s.mu.Unlock()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shut down websocket sink", zap.Error(err))
		}
		close(shutdown)
	}()

	s.logger.Info("Starting websocket sink", zap.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-shutdown
	return nil
}

func (s *WebSocketSink) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	s.logger.Debug("websocket client connected", zap.String("remote", conn.RemoteAddr().String()))
}

func (s *WebSocketSink) handleMessage(msg *publisher.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(msg); err != nil {
			s.logger.Debug("dropping websocket client", zap.Error(err))
			_ = client.Close()
			delete(s.clients, client)
		}
	}
	return nil
}
