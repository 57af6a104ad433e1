package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tablebid/internal/metrics"
	"tablebid/internal/repository"
	"tablebid/internal/service"
)

type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *captureSender) SendOTP(_ context.Context, phoneNumber, code string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phoneNumber] = code
	return nil
}

func (s *captureSender) code(phoneNumber string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phoneNumber]
}

type testServer struct {
	router  *gin.Engine
	sender  *captureSender
	metrics *metrics.Metrics
	bids    *repository.MemoryBidRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	m := metrics.New()
	sender := &captureSender{codes: make(map[string]string)}
	bidRepo := repository.NewMemoryBidRepository()

	authSvc := service.NewAuthService(
		logger,
		repository.NewMemoryUserRepository(),
		repository.NewMemorySessionRepository(),
		repository.NewMemoryChallengeStore(),
		sender,
		service.AuthOptions{},
	)
	tableSvc := service.NewTableService(logger, repository.NewMemoryTableRepository())
	bidSvc := service.NewBidService(logger, tableSvc, bidRepo)

	r := NewRouter(
		logger,
		m,
		authSvc,
		NewAuthHandler(logger, authSvc, m),
		NewTableHandler(logger, tableSvc, m),
		NewBidHandler(logger, bidSvc, m),
		nil,
	)
	return &testServer{router: r, sender: sender, metrics: m, bids: bidRepo}
}

type envelope struct {
	Success      bool            `json:"success"`
	Error        string          `json:"error"`
	Data         json.RawMessage `json:"data"`
	TableID      string          `json:"tableId"`
	BidID        string          `json:"bidId"`
	SessionToken string          `json:"sessionToken"`
	PhoneNumber  string          `json:"phoneNumber"`
	ExpiresAt    string          `json:"expiresAt"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

// login pide y verifica un OTP y devuelve el token de sesion.
func (s *testServer) login(t *testing.T, phone string) string {
	t.Helper()
	if code, env := s.do(t, http.MethodPost, "/auth/request-otp", "", map[string]string{"phoneNumber": phone}); code != http.StatusOK || !env.Success {
		t.Fatalf("request otp: %d %+v", code, env)
	}
	code, env := s.do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{
		"phoneNumber": phone,
		"otp":         s.sender.code(phone),
	})
	if code != http.StatusOK || env.SessionToken == "" {
		t.Fatalf("verify otp: %d %+v", code, env)
	}
	return env.SessionToken
}
