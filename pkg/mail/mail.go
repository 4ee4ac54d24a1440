// Package mail 事务邮件：注册回执、确认通知、联系表单转发、订阅欢迎
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecell/config"
	"ecell/pkg/logger"

	"go.uber.org/zap"
)

// 邮件驱动
const (
	DriverResend = "resend"
	DriverSMTP   = "smtp"
	DriverLog    = "log"
)

// ErrNoRecipient 邮件缺少收件人
var ErrNoRecipient = errors.New("mail has no recipient")

// Message 一封待发送的邮件
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Validate 基本校验
func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	return nil
}

// Sender 实际投递邮件
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Dispatcher 提交邮件，可以同步发送，也可以入队
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *Message) error
}

// NewSender 根据驱动创建 Sender
func NewSender(cfg config.MailConfig) (Sender, error) {
	switch cfg.Driver {
	case DriverResend:
		if cfg.Resend.APIKey == "" {
			return nil, fmt.Errorf("resend driver requires RESEND_API_KEY")
		}
		return NewResendSender(cfg.Resend, cfg.From), nil
	case DriverSMTP:
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("smtp driver requires SMTP_HOST")
		}
		return NewSMTPSender(cfg.SMTP, cfg.From), nil
	case DriverLog, "":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unsupported mail driver: %s", cfg.Driver)
	}
}

// AsyncDispatcher 在后台 goroutine 中直接发送，未启用队列时使用
type AsyncDispatcher struct {
	Sender  Sender
	Timeout time.Duration
}

// Dispatch 实现 Dispatcher，发送失败只记录日志
func (d AsyncDispatcher) Dispatch(_ context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := d.Sender.Send(ctx, msg); err != nil {
			logger.Error("Mail", zap.String("subject", msg.Subject), zap.Error(err))
		}
	}()
	return nil
}

// LogSender 只把邮件写入日志，本地开发使用
type LogSender struct{}

// Send 实现 Sender
func (LogSender) Send(_ context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	logger.Info("Mail",
		zap.Strings("to", msg.To),
		zap.Strings("cc", msg.Cc),
		zap.String("subject", msg.Subject),
	)
	return nil
}
