package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSMSGatewaySender_PostsMessage(t *testing.T) {
	var got smsRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender, err := NewSMSGatewaySender(srv.URL, "key-1", "TableBid")
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if err := sender.SendOTP(context.Background(), "+15551230000", "123456", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if auth != "Bearer key-1" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got.To != "+15551230000" || got.From != "TableBid" || !strings.Contains(got.Message, "123456") {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestSMSGatewaySender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	sender, _ := NewSMSGatewaySender(srv.URL, "key-1", "")
	err := sender.SendOTP(context.Background(), "+15551230000", "123456", time.Now().Add(time.Minute))
	if err == nil || !strings.Contains(err.Error(), "402") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestNewSMSGatewaySender_RequiresConfig(t *testing.T) {
	if _, err := NewSMSGatewaySender("", "key", ""); err == nil {
		t.Fatalf("expected error for missing url")
	}
	if _, err := NewSMSGatewaySender("http://localhost", " ", ""); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestLogSender_NeverFails(t *testing.T) {
	sender := NewLogSender(zap.NewNop())
	if err := sender.SendOTP(context.Background(), "+1", "000000", time.Now()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
