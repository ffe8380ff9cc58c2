package notify

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"farmconnect/pkg/domain/model"
)

var ErrNoRecipient = errors.New("recipient is required")

var _ model.NotificationSender = &LogSender{}

// LogSender delivers notifications to the structured log. It stands in for
// an email gateway; the console never had one.
type LogSender struct {
	logger *log.Entry
}

func NewLogSender(logger *log.Entry) *LogSender {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &LogSender{logger: logger.WithField("component", "notify")}
}

func (s *LogSender) Send(recipient, subject, body string) error {
	if strings.TrimSpace(recipient) == "" {
		return ErrNoRecipient
	}
	s.logger.WithFields(log.Fields{
		"recipient": recipient,
		"subject":   subject,
	}).Info(body)
	return nil
}
