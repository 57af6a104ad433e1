package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const smsDefaultTimeout = 10 * time.Second

// SMSGatewaySender envia el OTP a un gateway SMS via HTTP POST con cuerpo JSON.
type SMSGatewaySender struct {
	endpoint string
	apiKey   string
	senderID string
	client   *http.Client
}

func NewSMSGatewaySender(endpoint, apiKey, senderID string) (*SMSGatewaySender, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("sms gateway url is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("sms api key is required")
	}
	return &SMSGatewaySender{
		endpoint: endpoint,
		apiKey:   apiKey,
		senderID: senderID,
		client:   &http.Client{Timeout: smsDefaultTimeout},
	}, nil
}

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Message string `json:"message"`
}

func (s *SMSGatewaySender) SendOTP(ctx context.Context, phoneNumber string, code string, expiresAt time.Time) error {
	if strings.TrimSpace(phoneNumber) == "" {
		return fmt.Errorf("phone number is required")
	}
	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	body, err := json.Marshal(smsRequest{
		To:      phoneNumber,
		From:    s.senderID,
		Message: fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, minutes),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
