package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"esls/api/internal/config"
)

// Sender dispatches a verification code to a phone number. The gateway
// template takes three parameters; callers pass the same code for all three,
// which is the gateway's call convention, not a retry.
type Sender interface {
	Dispatch(ctx context.Context, phoneNumber string, params [3]string) (string, error)
}

// GatewaySender posts to an SMS platform HTTP endpoint.
type GatewaySender struct {
	cfg    config.SMSConfig
	client *http.Client
}

func NewGatewaySender(cfg config.SMSConfig) *GatewaySender {
	return &GatewaySender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type gatewayRequest struct {
	AppID      string    `json:"appId"`
	AppKey     string    `json:"appKey"`
	TemplateID string    `json:"templateId"`
	Phone      string    `json:"phone"`
	Params     [3]string `json:"params"`
}

type gatewayResponse struct {
	Result  int    `json:"result"`
	Message string `json:"message"`
	SID     string `json:"sid"`
}

func (s *GatewaySender) Dispatch(ctx context.Context, phoneNumber string, params [3]string) (string, error) {
	body, err := json.Marshal(gatewayRequest{
		AppID:      s.cfg.AppID,
		AppKey:     s.cfg.AppKey,
		TemplateID: s.cfg.TemplateID,
		Phone:      phoneNumber,
		Params:     params,
	})
	if err != nil {
		return "", fmt.Errorf("encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("dispatch sms: %w", err)
	}
	defer resp.Body.Close()

	var gw gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gw); err != nil {
		return "", fmt.Errorf("decode sms response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || gw.Result != 0 {
		return "", fmt.Errorf("sms gateway rejected dispatch: %d %s", gw.Result, gw.Message)
	}
	return gw.SID, nil
}
