package emailsvc

import (
	"net/mail"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
)

// renderer holds what every service needs to render a message.
type renderer struct {
	templates  *core.EmailTemplates
	appName    string
	frontend   string
	subjPrefix string
	from       mail.Address
}

func newRenderer(conf *core.Config, templates *core.EmailTemplates) renderer {
	return renderer{
		templates:  templates,
		appName:    conf.AppName,
		frontend:   conf.FrontendBaseURL,
		subjPrefix: "[" + conf.AppName + "] ",
		from:       conf.DefaultFromEmail(),
	}
}

// render reports whether msg has something to send.
func (r renderer) render(msg *core.EmailMessage) (bool, error) {
	if err := msg.Render(r.templates, r.appName, r.frontend); err != nil {
		return false, err
	}
	return msg.HasRecipients() && (msg.HasContent() || msg.HasAttachments()), nil
}

// New returns the console service in debug mode, SendGrid otherwise.
func New(conf *core.Config, templates *core.EmailTemplates, logger core.Logger) core.EmailService {
	if conf.Debug || conf.Email.SendgridAPIKey == "" {
		return NewConsoleService(conf, templates, logger)
	}
	return NewSendgridService(conf, templates, logger)
}
