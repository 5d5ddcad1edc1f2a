package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSink はブローカーがないとき（dev）に、届けるはずの内容をログに出す。
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(_ context.Context, env Envelope) error {
	s.logger.Info("notification",
		zap.String("event_type", env.EventType),
		zap.String("event_id", env.EventID),
		zap.String("key", env.Key),
		zap.ByteString("payload", env.Payload),
	)
	return nil
}

func (s *LogSink) Close() error { return nil }
