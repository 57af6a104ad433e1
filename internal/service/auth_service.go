package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tablebid/internal/domain"
	"tablebid/internal/notify"
	"tablebid/internal/repository"
)

const (
	defaultOTPTTL     = 10 * time.Minute
	defaultSessionTTL = 30 * 24 * time.Hour
	sendOTPTimeout    = 5 * time.Second
	sessionTokenBytes = 16
)

// AuthOptions ajusta expiraciones y limites del AuthService. Los valores cero usan defaults.
type AuthOptions struct {
	OTPTTL         time.Duration
	SessionTTL     time.Duration
	RequestLimiter OTPRateLimiter
	VerifyLimiter  OTPRateLimiter
}

// AuthService emite desafios OTP, los verifica y resuelve tokens de sesion.
type AuthService struct {
	logger         *zap.Logger
	users          repository.UserRepository
	sessions       repository.SessionRepository
	challenges     repository.ChallengeStore
	sender         notify.Sender
	requestLimiter OTPRateLimiter
	verifyLimiter  OTPRateLimiter
	otpTTL         time.Duration
	sessionTTL     time.Duration
	now            func() time.Time
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	challenges repository.ChallengeStore,
	sender notify.Sender,
	opts AuthOptions,
) *AuthService {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = defaultOTPTTL
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.RequestLimiter == nil {
		opts.RequestLimiter = NewOTPRateLimiter(opts.OTPTTL, 5)
	}
	if opts.VerifyLimiter == nil {
		opts.VerifyLimiter = NewOTPRateLimiter(opts.OTPTTL, 5)
	}
	return &AuthService{
		logger:         logger,
		users:          users,
		sessions:       sessions,
		challenges:     challenges,
		sender:         sender,
		requestLimiter: opts.RequestLimiter,
		verifyLimiter:  opts.VerifyLimiter,
		otpTTL:         opts.OTPTTL,
		sessionTTL:     opts.SessionTTL,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// VerifyResult es lo que recibe el cliente tras verificar el OTP.
type VerifyResult struct {
	SessionToken string
	PhoneNumber  string
	ExpiresAt    time.Time
	User         domain.User
}

// RequestChallenge genera un codigo de 6 digitos para el telefono, reemplazando el anterior.
// Un fallo al enviar el codigo se registra pero no falla la operacion.
func (s *AuthService) RequestChallenge(ctx context.Context, phoneNumber string) error {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return fmt.Errorf("%w: phoneNumber is required", ErrInvalidInput)
	}
	if !s.requestLimiter.Allow(phoneNumber) {
		return ErrRateLimited
	}

	code, hash, err := generateOTP()
	if err != nil {
		return err
	}
	now := s.now()
	challenge := domain.OTPChallenge{
		PhoneNumber: phoneNumber,
		CodeHash:    hash,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.otpTTL),
	}
	if err := s.challenges.Put(ctx, challenge); err != nil {
		return err
	}

	if s.sender != nil {
		sendCtx, cancel := context.WithTimeout(ctx, sendOTPTimeout)
		defer cancel()
		if err := s.sender.SendOTP(sendCtx, phoneNumber, code, challenge.ExpiresAt); err != nil {
			s.logger.Warn("send otp failed", zap.Error(err), zap.String("phone_number", phoneNumber))
		}
	}
	return nil
}

// VerifyChallenge consume el desafio si el codigo coincide y emite un token de sesion nuevo,
// invalidando cualquier sesion previa del usuario.
func (s *AuthService) VerifyChallenge(ctx context.Context, phoneNumber, code string) (VerifyResult, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	code = strings.TrimSpace(code)
	if phoneNumber == "" || code == "" {
		return VerifyResult{}, fmt.Errorf("%w: phoneNumber and otp are required", ErrInvalidInput)
	}
	if !s.verifyLimiter.Allow(phoneNumber) {
		return VerifyResult{}, ErrRateLimited
	}

	challenge, err := s.challenges.Get(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return VerifyResult{}, ErrChallengeNotFound
		}
		return VerifyResult{}, err
	}
	now := s.now()
	if challenge.Expired(now) {
		return VerifyResult{}, ErrChallengeNotFound
	}
	if !verifyOTP(code, challenge.CodeHash) {
		return VerifyResult{}, ErrChallengeMismatch
	}

	consumed, err := s.challenges.Consume(ctx, challenge)
	if err != nil {
		return VerifyResult{}, err
	}
	if !consumed {
		return VerifyResult{}, ErrChallengeNotFound
	}

	user, err := s.users.Upsert(ctx, domain.User{
		ID:          phoneNumber,
		PhoneNumber: phoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return VerifyResult{}, err
	}

	token, err := generateSessionToken()
	if err != nil {
		return VerifyResult{}, err
	}
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashSessionToken(token),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Replace(ctx, session); err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{
		SessionToken: token,
		PhoneNumber:  user.PhoneNumber,
		ExpiresAt:    session.ExpiresAt,
		User:         user,
	}, nil
}

// Resolve devuelve el usuario dueño del token.
func (s *AuthService) Resolve(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, ErrUnauthenticated
	}
	hash := hashSessionToken(token)
	session, err := s.sessions.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUnauthenticated
		}
		return domain.User{}, err
	}
	if session.Expired(s.now()) {
		if err := s.sessions.DeleteByTokenHash(ctx, hash); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("delete expired session failed", zap.Error(err), zap.String("session_id", session.ID))
		}
		return domain.User{}, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUnauthenticated
		}
		return domain.User{}, err
	}
	return user, nil
}

// Logout elimina la sesion del token. Es idempotente.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.sessions.DeleteByTokenHash(ctx, hashSessionToken(strings.TrimSpace(token)))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func generateOTP() (string, string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	hash, err := hashOTP(code)
	if err != nil {
		return "", "", err
	}
	return code, hash, nil
}

func hashOTP(code string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	saltStr := base64.StdEncoding.EncodeToString(salt)
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	return saltStr + ":" + base64.StdEncoding.EncodeToString(hashBytes[:]), nil
}

func verifyOTP(code, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}
	hashBytes := sha256.Sum256([]byte(parts[0] + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(parts[1])) == 1
}

func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
