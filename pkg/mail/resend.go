package mail

import (
	"context"
	"fmt"
	"time"

	"ecell/config"

	"github.com/go-resty/resty/v2"
)

// ResendSender 通过 Resend HTTP API 发送邮件
type ResendSender struct {
	client *resty.Client
	from   string
}

// resendResponse Resend 成功响应
type resendResponse struct {
	ID string `json:"id"`
}

// NewResendSender 创建 Resend 发送器
func NewResendSender(cfg config.ResendConfig, from string) *ResendSender {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &ResendSender{
		client: client,
		from:   from,
	}
}

// Send 实现 Sender
func (s *ResendSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	payload := *msg
	if payload.From == "" {
		payload.From = s.from
	}

	var result resendResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend request error: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("resend responded %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
