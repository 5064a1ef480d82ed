package adapter

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsConn is the subset of the NATS connection the services touch
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=NatsConn=MockNatsConn,JetStream=MockJetStream,Consumer=MockNatsConsumer,ConsumeContext=MockConsumeContext,Message=MockJetStreamMessage,NatsJetStream=MockNatsJetStream
type NatsConn interface {
	Close()
	LastError() error
	ConnectedUrl() string
}

// JetStream wraps the jetstream context. Methods return adapter interfaces
// rather than the nats package's so consumers stay mockable.
type JetStream interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
	CreateOrUpdateConsumer(ctx context.Context, stream string, cfg jetstream.ConsumerConfig) (Consumer, error)
	Consumer(ctx context.Context, stream string, consumer string) (Consumer, error)
}

// MessageHandler is invoked once per delivered message
type MessageHandler func(msg Message)

// Consumer wraps a JetStream pull consumer
type Consumer interface {
	Consume(handler MessageHandler, opts ...jetstream.PullConsumeOpt) (ConsumeContext, error)
	Info(ctx context.Context) (*jetstream.ConsumerInfo, error)
}

// ConsumeContext controls a running consume loop
type ConsumeContext interface {
	Stop()
	Drain()
	Closed() <-chan struct{}
}

// Message is a delivered JetStream message with its ack controls
type Message interface {
	Data() []byte
	Metadata() (*jetstream.MsgMetadata, error)
	Ack() error
	Nak() error
	Term() error
}

// NatsJetStream opens NATS connections with a JetStream context
type NatsJetStream interface {
	Connect(url string, options ...nats.Option) (NatsConn, JetStream, error)
}

type natsJetStream struct{}

// NewNatsJetStream returns a NatsJetStream backed by the nats package
func NewNatsJetStream() NatsJetStream {
	return natsJetStream{}
}

func (natsJetStream) Connect(url string, options ...nats.Option) (NatsConn, JetStream, error) {
	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, nil, err
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	return nc, jetStreamWrapper{js: js}, nil
}

type jetStreamWrapper struct {
	js jetstream.JetStream
}

func (w jetStreamWrapper) Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	return w.js.Publish(ctx, subject, data, opts...)
}

func (w jetStreamWrapper) CreateOrUpdateConsumer(ctx context.Context, stream string, cfg jetstream.ConsumerConfig) (Consumer, error) {
	c, err := w.js.CreateOrUpdateConsumer(ctx, stream, cfg)
	if err != nil {
		return nil, err
	}
	return consumerWrapper{consumer: c}, nil
}

func (w jetStreamWrapper) Consumer(ctx context.Context, stream string, consumer string) (Consumer, error) {
	c, err := w.js.Consumer(ctx, stream, consumer)
	if err != nil {
		return nil, err
	}
	return consumerWrapper{consumer: c}, nil
}

type consumerWrapper struct {
	consumer jetstream.Consumer
}

func (w consumerWrapper) Consume(handler MessageHandler, opts ...jetstream.PullConsumeOpt) (ConsumeContext, error) {
	return w.consumer.Consume(func(msg jetstream.Msg) {
		handler(msg)
	}, opts...)
}

func (w consumerWrapper) Info(ctx context.Context) (*jetstream.ConsumerInfo, error) {
	return w.consumer.Info(ctx)
}
