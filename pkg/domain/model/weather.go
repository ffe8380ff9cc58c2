package model

import (
	"errors"
	"time"
)

var ErrAlertNotFound = errors.New("weather alert not found")

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = []string{"Low", "Medium", "High", "Critical"}

func (s Severity) String() string { return enumName(severityNames, int(s)) }

func (s Severity) Valid() bool { return enumValid(severityNames, int(s)) }

func (s Severity) MarshalText() ([]byte, error) {
	return marshalEnum("severity", severityNames, int(s))
}

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := parseEnum("severity", severityNames, text)
	*s = Severity(v)
	return err
}

// WeatherAlert is never deleted; retiring it clears Active.
type WeatherAlert struct {
	ID       int64     `json:"id"`
	Type     string    `json:"type"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Regions  []string  `json:"regions"`
	Date     time.Time `json:"date"`
	Active   bool      `json:"active"`
}

func (a WeatherAlert) Covers(region string) bool {
	for _, r := range a.Regions {
		if r == region {
			return true
		}
	}
	return false
}

type WeatherAlertRepository interface {
	NextID() (int64, error)
	Create(alert *WeatherAlert) error
	Update(alert *WeatherAlert) error
	Find(id int64) (*WeatherAlert, error)
	List() ([]WeatherAlert, error)
}
