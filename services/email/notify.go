package emailsvc

import (
	"bytes"
	"encoding/json"
	"net/mail"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/course"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

// Notifier e-mails publish and import reports to the configured address.
// It does nothing when no address is configured.
type Notifier struct {
	svc core.EmailService
	to  string
}

func NewNotifier(svc core.EmailService, conf *core.Config) *Notifier {
	return &Notifier{svc: svc, to: conf.Email.NotifyEmail}
}

func (n *Notifier) recipients() []mail.Address {
	if n == nil || n.to == "" {
		return nil
	}
	addr, err := mail.ParseAddress(n.to)
	if err != nil {
		return []mail.Address{{Address: n.to}}
	}
	return []mail.Address{*addr}
}

func actorName(actor session.Actor) string {
	switch {
	case actor.Username != "":
		return actor.Username
	case actor.Email != "":
		return actor.Email
	default:
		return actor.ID
	}
}

// CoursePublished reports a course submitted to the backend.
func (n *Notifier) CoursePublished(actor session.Actor, doc *course.Document) {
	to := n.recipients()
	if to == nil {
		return
	}
	n.svc.SendMessages(&core.EmailMessage{
		To:           to,
		Subject:      "Course submitted: " + doc.Title,
		TemplateName: "course_published",
		TemplateData: map[string]interface{}{
			"Title":        doc.Title,
			"CourseID":     doc.ID,
			"Actor":        actorName(actor),
			"ContentCount": len(doc.Content),
		},
	})
}

// QuestionsImported reports the outcome of a question bank batch.
func (n *Notifier) QuestionsImported(actor session.Actor, report *qbank.Report) {
	to := n.recipients()
	if to == nil {
		return
	}
	msg := &core.EmailMessage{
		To:           to,
		Subject:      "Question bank import",
		TemplateName: "questions_imported",
		TemplateData: map[string]interface{}{
			"Actor":   actorName(actor),
			"Summary": report.Summary(),
			"Results": report.Results,
		},
	}
	if data, err := json.MarshalIndent(report, "", "  "); err == nil {
		_ = msg.Attach(bytes.NewReader(data), "report.json", "application/json")
	}
	n.svc.SendMessages(msg)
}
