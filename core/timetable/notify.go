package timetable

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
)

// Change actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

const changeTemplate = "timetable_changed"

type (
	// Change describes a committed mutation. Previous is only set on updates.
	Change struct {
		Action   string
		Entry    Entry
		Previous *Entry
	}

	// Notifier is told about every committed mutation. It must not block the caller.
	Notifier interface {
		Notify(ctx context.Context, ch Change)
	}

	NopNotifier struct{}

	mailNotifier struct {
		mailSvc    core.EmailService
		recipients []mail.Address
	}
)

func (NopNotifier) Notify(context.Context, Change) {}

// NewMailNotifier emails every change to conf.Timetable.NotifyEmails. Invalid addresses are skipped.
func NewMailNotifier(mailSvc core.EmailService, conf *core.Config, logger core.Logger) Notifier {
	recipients := make([]mail.Address, 0, len(conf.Timetable.NotifyEmails))
	for _, addr := range conf.Timetable.NotifyEmails {
		parsed, err := mail.ParseAddress(addr)
		if err != nil {
			logger.Warn(fmt.Sprintf("timetable.NewMailNotifier: skipping %q: %v", addr, err))
			continue
		}
		recipients = append(recipients, *parsed)
	}
	if len(recipients) == 0 {
		return NopNotifier{}
	}
	return &mailNotifier{mailSvc: mailSvc, recipients: recipients}
}

func (n *mailNotifier) Notify(_ context.Context, ch Change) {
	n.mailSvc.SendMessages(&core.EmailMessage{
		To: n.recipients,
		Subject: fmt.Sprintf(
			"Timetable entry %s: %s %s-%s", ch.Action, ch.Entry.Day, ch.Entry.StartTime, ch.Entry.EndTime,
		),
		TemplateName: changeTemplate,
		TemplateData: ch,
	})
}
