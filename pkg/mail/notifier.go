package mail

import (
	"context"
	"fmt"
	"time"

	"ecell/app/models/contact"
	"ecell/app/models/order"
	"ecell/app/models/payment"
	"ecell/app/models/subscriber"
	"ecell/pkg/app"
	"ecell/pkg/logger"
	"ecell/pkg/payment/types"

	"go.uber.org/zap"
)

// frame 模板外框数据
type frame struct {
	Title   string
	Club    string
	SiteURL string
}

type registrationData struct {
	frame
	Name, Email, RollNo, Event string
	Amount                     int64
	Handle, Note               string
}

type confirmationData struct {
	frame
	Name, Email, RollNo, Branch, Year string
	Event, TransactionID              string
	ConfirmedOn, ConfirmedBy          string
}

type contactData struct {
	frame
	Name, Email, Subject, Message, SubmittedAt string
}

type welcomeData struct {
	frame
	Name string
}

// Notifier 把业务事件转换为邮件并交给 Dispatcher
type Notifier struct {
	dispatcher Dispatcher
	from       string
	clubBox    string
	club       string
	siteURL    string
	now        func() time.Time
}

// NotifierOption Notifier 配置项
type NotifierOption func(*Notifier)

// WithClock 指定时间来源，邮件中的时间戳使用
func WithClock(now func() time.Time) NotifierOption {
	return func(n *Notifier) {
		n.now = now
	}
}

// NewNotifier 创建 Notifier
func NewNotifier(d Dispatcher, from, clubBox, club, siteURL string, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		dispatcher: d,
		from:       from,
		clubBox:    clubBox,
		club:       club,
		siteURL:    siteURL,
		now:        app.TimenowInTimezone,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// OrderCreated 发送报名回执（待付款）
func (n *Notifier) OrderCreated(ctx context.Context, o *order.Order, ins *types.Instructions) {
	data := registrationData{
		frame:  n.frame("Registration Received"),
		Name:   o.FullName,
		Email:  o.Email,
		RollNo: o.RollNo,
		Event:  o.EventName,
		Amount: o.Amount,
	}
	if ins != nil {
		data.Handle = ins.Handle
		data.Note = ins.Note
	}

	n.send(ctx, "registration_received", data, &Message{
		To:      []string{o.Email},
		Subject: fmt.Sprintf("Registration Received - %s", o.EventName),
	})
}

// PaymentVerified 发送报名确认，抄送社团邮箱
func (n *Notifier) PaymentVerified(ctx context.Context, p *payment.Payment, o *order.Order) {
	data := confirmationData{
		frame:         n.frame("Registration Confirmed!"),
		Name:          p.FullName,
		Email:         p.Email,
		Branch:        p.Branch,
		TransactionID: p.TransactionID,
		ConfirmedOn:   n.now().Format("02 Jan 2006 15:04"),
		ConfirmedBy:   p.VerifiedBy,
	}
	if o != nil {
		data.RollNo = o.RollNo
		data.Year = o.Year
		data.Event = o.EventName
	}

	msg := &Message{
		To:      []string{p.Email},
		Subject: fmt.Sprintf("Registration Confirmed - %s", data.Event),
	}
	if n.clubBox != "" {
		msg.Cc = []string{n.clubBox}
	}
	n.send(ctx, "registration_confirmed", data, msg)
}

// ContactReceived 把联系表单转发到社团邮箱，回复直接发给留言人
func (n *Notifier) ContactReceived(ctx context.Context, m *contact.ContactMessage) {
	if n.clubBox == "" {
		return
	}
	n.send(ctx, "contact_notification", contactData{
		frame:       n.frame("New Contact Submission"),
		Name:        m.FullName(),
		Email:       m.Email,
		Subject:     m.Subject,
		Message:     m.Message,
		SubmittedAt: m.CreatedAt.In(n.now().Location()).Format("02 Jan 2006 15:04"),
	}, &Message{
		To:      []string{n.clubBox},
		ReplyTo: m.Email,
		Subject: fmt.Sprintf("New Contact Submission from %s", m.FullName()),
	})
}

// Subscribed 发送订阅欢迎邮件
func (n *Notifier) Subscribed(ctx context.Context, s *subscriber.Subscriber) {
	n.send(ctx, "subscription_welcome", welcomeData{
		frame: n.frame("Welcome aboard!"),
		Name:  s.Name,
	}, &Message{
		To:      []string{s.Email},
		Subject: fmt.Sprintf("Welcome to %s", n.club),
	})
}

func (n *Notifier) frame(title string) frame {
	return frame{Title: title, Club: n.club, SiteURL: n.siteURL}
}

// send 渲染并提交，任何失败只记录日志
func (n *Notifier) send(ctx context.Context, tpl string, data interface{}, msg *Message) {
	html, err := Render(tpl, data)
	if err != nil {
		logger.Error("Mail", zap.String("template", tpl), zap.Error(err))
		return
	}
	msg.HTML = html
	if msg.From == "" {
		msg.From = n.from
	}

	if err := n.dispatcher.Dispatch(ctx, msg); err != nil {
		logger.Error("Mail", zap.String("template", tpl), zap.Strings("to", msg.To), zap.Error(err))
	}
}
