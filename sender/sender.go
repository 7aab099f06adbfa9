package sender

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}

// LogSender is a fallback used when SMTP is not configured (local dev,
// tests). It records the send in the log and reports success.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, _ string) (SendResult, error) {
	s.Logger.Info("Email send skipped (no SMTP configured)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return SendResult{MessageID: "log-only", SentAt: time.Now()}, nil
}
