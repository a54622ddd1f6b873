package services

import (
	"fmt"

	"menu-app/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier emails the configured recipients after a menu changes, so site
// operators know a navigation tree was edited. With no SMTP host configured
// it only logs.
type Notifier struct {
	log *zap.Logger
}

func NewNotifier(log *zap.Logger) *Notifier {
	return &Notifier{log: log}
}

// MenuUpdated sends the update notification. Callers run it in a goroutine;
// a failed mail never fails the request.
func (n *Notifier) MenuUpdated(menuName, itemID string) {
	if config.SMTPHost == "" || len(config.NotifyEmails) == 0 {
		n.log.Debug("menu update notification skipped, SMTP not configured",
			zap.String("item_id", itemID))
		return
	}

	subject := "Menu updated: " + menuName
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Menu %s was updated</h3>
				<p>Changed item: <strong>%s</strong></p>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, menuName, itemID)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPUser)
	msg.SetHeader("To", config.NotifyEmails...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		n.log.Error("failed to send menu update notification", zap.Error(err))
		return
	}

	n.log.Info("menu update notification sent",
		zap.String("menu", menuName),
		zap.Strings("to", config.NotifyEmails))
}
