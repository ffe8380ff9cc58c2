package event

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"farmconnect/pkg/domain/service"
)

// Envelope is the wire shape of every event pushed to the feed or the bus.
type Envelope struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload"`
	Time    time.Time `json:"time"`
}

func NewEnvelope(eventType string, payload any) Envelope {
	return Envelope{Type: eventType, Payload: payload, Time: time.Now().UTC()}
}

func (e Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	return data, errors.Wrapf(err, "encode %s", e.Type)
}

var _ service.EventDispatcher = &LogDispatcher{}

type LogDispatcher struct {
	logger *log.Entry
}

func NewLogDispatcher(logger *log.Entry) *LogDispatcher {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(event service.Event) error {
	d.logger.WithFields(log.Fields{
		"event":   event.Type(),
		"payload": event,
	}).Info("domain event")
	return nil
}

var _ service.EventDispatcher = Fanout{}

// Fanout hands every event to all dispatchers and reports the first failure.
type Fanout []service.EventDispatcher

func (f Fanout) Dispatch(event service.Event) error {
	var first error
	for _, dispatcher := range f {
		if dispatcher == nil {
			continue
		}
		if err := dispatcher.Dispatch(event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
