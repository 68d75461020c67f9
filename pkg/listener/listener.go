package listener

import (
	"context"

	"github.com/minisock/minisock/pkg/controller"
	"github.com/minisock/minisock/pkg/publisher"
	"github.com/minisock/minisock/pkg/transport/udp"
	"go.uber.org/zap"
)

var _ controller.Runnable = &listener{}

// NewListener returns a Runnable that reads datagrams from sock and
// publishes each one on the given topic.
func NewListener(
	logger *zap.Logger,
	sock *udp.Socket,
	pub publisher.Publisher,
	topic string,
) controller.Runnable {
	return &listener{
		logger: logger,
		sock:   sock,
		pub:    pub,
		topic:  topic,
	}
}

type listener struct {
	logger *zap.Logger
	sock   *udp.Socket
	pub    publisher.Publisher
	topic  string
}

func (l *listener) Start(ctx context.Context) error {
	if err := l.pub.AddTopic(l.topic); err != nil {
		return err
	}

	shutdown := make(chan struct{})
	go func() {
		<-ctx.Done()
		l.logger.Info("Shutting down listener")

		if err := l.sock.Close(); err != nil {
			l.logger.Error("Failed to close socket", zap.Error(err))
		}
		close(shutdown)
	}()

	addr, err := l.sock.LocalAddr()
	if err != nil {
		return err
	}
	l.logger.Info("Starting listener", zap.Any("addr", addr), zap.String("topic", l.topic))
	go l.listen()

	<-shutdown
	return nil
}

func (l *listener) listen() {
	l.sock.Listen(func(addr *udp.Addr, payload []byte) {
		// The read loop reuses its buffer, subscribers run async.
		data := make([]byte, len(payload))
		copy(data, payload)

		msg := publisher.Message{
			Topic:  l.topic,
			Source: addr.String(),
			Data:   data,
		}
		if err := l.pub.Publish(l.topic, msg); err != nil {
			l.logger.Error("Failed to publish datagram",
				zap.String("source", msg.Source),
				zap.Error(err),
			)
		}
	})
}
