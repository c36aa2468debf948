package help

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"compassai/internal/domain"
)

// Contact form field names.
const (
	FieldEmail   = "email"
	FieldTopic   = "topic"
	FieldSubject = "subject"
	FieldMessage = "msg"
)

// Contact form texts.
const (
	MsgEmailInvalid    = "올바른 이메일을 입력해 주세요."
	MsgSubjectRequired = "제목을 입력해 주세요."
	MsgMessageShort    = "문의 내용을 10자 이상 입력해 주세요."
	MsgTopicUnknown    = "문의 유형을 선택해 주세요."
	ReceivedText       = "문의가 접수되었습니다. 평균 1영업일 이내 이메일로 답변드립니다."
	DefaultTopic       = "일반 문의"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var topics = []string{"일반 문의", "계정/로그인", "결제/환불", "AI 등록/검수", "버그/기술 이슈", "제안/피드백"}

// Topics lists the selectable contact topics.
func Topics() []string {
	return append([]string(nil), topics...)
}

// ContactForm is the contact tab input. An empty topic means DefaultTopic.
type ContactForm struct {
	Email   string
	Topic   string
	Subject string
	Message string
}

func (f ContactForm) Validate() domain.FieldErrors {
	fields := domain.FieldErrors{}
	if strings.TrimSpace(f.Email) == "" || !emailPattern.MatchString(f.Email) {
		fields.Set(FieldEmail, MsgEmailInvalid)
	}
	if f.Topic != "" && !knownTopic(f.Topic) {
		fields.Set(FieldTopic, MsgTopicUnknown)
	}
	if strings.TrimSpace(f.Subject) == "" {
		fields.Set(FieldSubject, MsgSubjectRequired)
	}
	message := strings.TrimSpace(f.Message)
	if message == "" || utf8.RuneCountInString(message) < domain.DefaultMinContactLength {
		fields.Set(FieldMessage, MsgMessageShort)
	}
	return fields
}

func knownTopic(topic string) bool {
	for _, known := range topics {
		if known == topic {
			return true
		}
	}
	return false
}

// Outbox keeps contact messages until they can be delivered.
type Outbox interface {
	EnqueueContact(msg domain.ContactMessage) error
	Contacts() ([]domain.ContactMessage, error)
}

// Desk accepts contact messages into the local outbox.
type Desk struct {
	outbox Outbox
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewDesk(outbox Outbox, logger *zap.Logger) *Desk {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Desk{
		outbox: outbox,
		logger: logger.Named("help"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Submit validates and queues a contact message.
func (d *Desk) Submit(ctx context.Context, form ContactForm) (domain.ContactMessage, error) {
	if err := domain.Validation(form.Validate()); err != nil {
		return domain.ContactMessage{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.ContactMessage{}, domain.Wrap(domain.CodeCanceled, "submit contact", err)
	}
	topic := form.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	msg := domain.ContactMessage{
		ID:        d.newID(),
		Email:     strings.TrimSpace(form.Email),
		Topic:     topic,
		Subject:   strings.TrimSpace(form.Subject),
		Message:   strings.TrimSpace(form.Message),
		CreatedAt: d.now().UTC(),
	}
	if err := d.outbox.EnqueueContact(msg); err != nil {
		return domain.ContactMessage{}, domain.Wrap(domain.CodeInternal, "submit contact", err)
	}
	d.logger.Info("contact queued", zap.String("id", msg.ID), zap.String("topic", msg.Topic))
	return msg, nil
}

// Pending returns the queued messages, oldest first.
func (d *Desk) Pending() ([]domain.ContactMessage, error) {
	return d.outbox.Contacts()
}
