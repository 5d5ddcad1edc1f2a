package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink は1件を届ける先（Kafka、ログなど）
type Sink interface {
	Deliver(ctx context.Context, env Envelope) error
	Close() error
}

type DispatcherConfig struct {
	Producer string
	Buffer   int
	Retries  int
	Backoff  time.Duration
	Timeout  time.Duration
}

// Dispatcher はリクエストの外で通知を配送する。
// 失敗はリトライしてから捨て、必ずログに残す。
type Dispatcher struct {
	sink   Sink
	logger *zap.Logger
	cfg    DispatcherConfig

	inbox    chan Envelope
	mu       sync.RWMutex
	closed   bool
	doneCh   chan struct{}
	stopOnce sync.Once
}

func NewDispatcher(sink Sink, logger *zap.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 200 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Producer == "" {
		cfg.Producer = "sneakerhub-api"
	}
	return &Dispatcher{
		sink:   sink,
		logger: logger,
		cfg:    cfg,
		inbox:  make(chan Envelope, cfg.Buffer),
		doneCh: make(chan struct{}),
	}
}

// Start はワーカーを1本起動する
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.doneCh)
		for env := range d.inbox {
			d.deliver(env)
		}
	}()
}

// Notify はキューに積むだけ。満杯なら捨ててログに出す
func (d *Dispatcher) Notify(_ context.Context, e Event) {
	env, err := d.envelope(e)
	if err != nil {
		d.logger.Error("notification encode failed", zap.String("event_type", e.Type), zap.Error(err))
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("notification dropped after shutdown", zap.String("event_type", e.Type), zap.String("event_id", env.EventID))
		return
	}

	select {
	case d.inbox <- env:
	default:
		d.logger.Error("notification queue full, dropped", zap.String("event_type", e.Type), zap.String("event_id", env.EventID))
	}
}

// Close は残りを配送しきってから sink を閉じる
func (d *Dispatcher) Close() error {
	var err error
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.inbox)
		d.mu.Unlock()

		<-d.doneCh
		err = d.sink.Close()
	})
	return err
}

func (d *Dispatcher) deliver(env Envelope) {
	attempts := d.cfg.Retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		err := d.sink.Deliver(ctx, env)
		cancel()
		if err == nil {
			return
		}

		fields := []zap.Field{
			zap.String("event_type", env.EventType),
			zap.String("event_id", env.EventID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		}
		if attempt == attempts {
			d.logger.Error("notification delivery failed, giving up", fields...)
			return
		}
		d.logger.Warn("notification delivery failed, retrying", fields...)
		time.Sleep(d.cfg.Backoff * time.Duration(attempt))
	}
}

func (d *Dispatcher) envelope(e Event) (Envelope, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal payload: %w", err)
	}
	occurred := e.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    e.Type,
		EventVersion: 1,
		OccurredAt:   occurred.UTC(),
		Producer:     d.cfg.Producer,
		Key:          e.Key,
		Payload:      payload,
	}, nil
}
