// Package site 联系表单与邮件订阅
package site

import (
	"context"
	"strings"

	v1 "ecell/app/http/controllers/api/v1"
	"ecell/app/models/contact"
	"ecell/app/models/subscriber"
	"ecell/app/requests"
	"ecell/pkg/logger"
	"ecell/pkg/payment/types"
	"ecell/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactStore 留言存储
type ContactStore interface {
	Create(ctx context.Context, m *contact.ContactMessage) error
}

// SubscriberStore 订阅存储
type SubscriberStore interface {
	Create(ctx context.Context, s *subscriber.Subscriber) error
}

// Notifier 站点邮件通知，失败只记录日志
type Notifier interface {
	ContactReceived(ctx context.Context, m *contact.ContactMessage)
	Subscribed(ctx context.Context, s *subscriber.Subscriber)
}

type SiteController struct {
	contacts    ContactStore
	subscribers SubscriberStore
	notifier    Notifier
}

// NewSiteController notifier 可以为 nil
func NewSiteController(contacts ContactStore, subscribers SubscriberStore, notifier Notifier) *SiteController {
	return &SiteController{
		contacts:    contacts,
		subscribers: subscribers,
		notifier:    notifier,
	}
}

// Contact 保存联系留言并通知社团邮箱
// POST /api/contact
func (sc *SiteController) Contact(c *gin.Context) {
	req, err := requests.ValidateContact(c)
	if err != nil {
		v1.RenderRequestError(c, err)
		return
	}

	m := &contact.ContactMessage{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
	}
	if err := sc.contacts.Create(c.Request.Context(), m); err != nil {
		v1.RenderError(c, &types.BackendError{Op: "save contact message", Err: err})
		return
	}
	logger.Info("Contact", zap.Uint64("id", m.ID), zap.String("subject", m.Subject))

	if sc.notifier != nil {
		sc.notifier.ContactReceived(c.Request.Context(), m)
	}

	response.Created(c, gin.H{"id": m.ID}, "Thanks for reaching out, we will get back to you soon")
}

// Subscribe 保存订阅并发送欢迎邮件
// POST /api/subscribe
func (sc *SiteController) Subscribe(c *gin.Context) {
	req, err := requests.ValidateSubscribe(c)
	if err != nil {
		v1.RenderRequestError(c, err)
		return
	}

	s := &subscriber.Subscriber{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	}
	if err := sc.subscribers.Create(c.Request.Context(), s); err != nil {
		v1.RenderError(c, &types.BackendError{Op: "save subscriber", Err: err})
		return
	}
	logger.Info("Subscribe", zap.Uint64("id", s.ID))

	if sc.notifier != nil {
		sc.notifier.Subscribed(c.Request.Context(), s)
	}

	response.Created(c, gin.H{"id": s.ID}, "Subscribed successfully")
}
