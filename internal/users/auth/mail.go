// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/taibuivan/contactly/internal/platform/mailer"
)

// # Mail Templates

var mailTemplates = template.Must(template.New("mail").Parse(`
{{define "confirm_email"}}<!DOCTYPE html>
<html>
  <body>
    <p>Hi {{.Username}},</p>
    <p>Thanks for registering with Contactly. Please confirm your email address:</p>
    <p><a href="{{.Link}}">Confirm email</a></p>
    <p>The link is valid for 7 days.</p>
  </body>
</html>{{end}}
{{define "reset_password"}}<!DOCTYPE html>
<html>
  <body>
    <p>Hi {{.Username}},</p>
    <p>A password change was requested for your Contactly account.</p>
    <p><a href="{{.Link}}">Confirm the new password</a></p>
    <p>If you did not ask for this, ignore this email. The link expires in one hour.</p>
  </body>
</html>{{end}}
`))

type mailData struct {
	Username string
	Link     string
}

// renderMessage builds a mail from the named template.
func renderMessage(name, to, subject string, data mailData) (mailer.Message, error) {
	var body bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&body, name, data); err != nil {
		return mailer.Message{}, fmt.Errorf("auth_mail_render_failed: %w", err)
	}

	return mailer.Message{To: to, Subject: subject, HTML: body.String()}, nil
}
