package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sender define la interfaz para el envio de codigos OTP al telefono del usuario.
type Sender interface {
	SendOTP(ctx context.Context, phoneNumber string, code string, expiresAt time.Time) error
}

type logSender struct {
	logger *zap.Logger
}

// NewLogSender escribe el codigo en el log en lugar de enviarlo. Solo para desarrollo.
func NewLogSender(logger *zap.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) SendOTP(_ context.Context, phoneNumber string, code string, expiresAt time.Time) error {
	s.logger.Info("otp generated",
		zap.String("phone_number", phoneNumber),
		zap.String("code", code),
		zap.Time("expires_at", expiresAt),
	)
	return nil
}
