package service

import (
	"errors"
	"strings"
	"time"

	"farmconnect/pkg/domain/model"
)

var (
	ErrAlertIncomplete = errors.New("alert type, message and at least one region are required")
	ErrInvalidSeverity = errors.New("unknown alert severity")
)

type NewWeatherAlert struct {
	Type     string         `json:"type"`
	Severity model.Severity `json:"severity"`
	Message  string         `json:"message"`
	Regions  []string       `json:"regions"`
	Date     *time.Time     `json:"date,omitempty"`
}

type WeatherService interface {
	Publish(input NewWeatherAlert) (*model.WeatherAlert, error)
	Retire(alertID int64) (*model.WeatherAlert, error)
	Active() ([]model.WeatherAlert, error)
	ForRegion(region string) ([]model.WeatherAlert, error)
	List() ([]model.WeatherAlert, error)
}

func NewWeatherService(repo model.WeatherAlertRepository, dispatcher EventDispatcher) WeatherService {
	return &weatherService{repo: repo, dispatcher: dispatcher}
}

type weatherService struct {
	repo       model.WeatherAlertRepository
	dispatcher EventDispatcher
}

func (s *weatherService) Publish(input NewWeatherAlert) (*model.WeatherAlert, error) {
	if strings.TrimSpace(input.Type) == "" || strings.TrimSpace(input.Message) == "" || len(input.Regions) == 0 {
		return nil, ErrAlertIncomplete
	}
	if !input.Severity.Valid() {
		return nil, ErrInvalidSeverity
	}

	id, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	alert := &model.WeatherAlert{
		ID:       id,
		Type:     input.Type,
		Severity: input.Severity,
		Message:  input.Message,
		Regions:  append([]string{}, input.Regions...),
		Date:     date,
		Active:   true,
	}

	if err := s.repo.Create(alert); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.WeatherAlertPublished{AlertID: id, Severity: alert.Severity, Regions: alert.Regions})
	return alert, nil
}

// Retire hides the alert; the record stays.
func (s *weatherService) Retire(alertID int64) (*model.WeatherAlert, error) {
	alert, err := s.repo.Find(alertID)
	if err != nil {
		return nil, err
	}
	if !alert.Active {
		return alert, nil
	}

	alert.Active = false
	if err := s.repo.Update(alert); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.WeatherAlertRetired{AlertID: alertID})
	return alert, nil
}

func (s *weatherService) Active() ([]model.WeatherAlert, error) {
	return s.filter(func(a model.WeatherAlert) bool { return a.Active })
}

func (s *weatherService) ForRegion(region string) ([]model.WeatherAlert, error) {
	return s.filter(func(a model.WeatherAlert) bool { return a.Active && a.Covers(region) })
}

func (s *weatherService) List() ([]model.WeatherAlert, error) {
	return s.repo.List()
}

func (s *weatherService) filter(keep func(model.WeatherAlert) bool) ([]model.WeatherAlert, error) {
	alerts, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	kept := make([]model.WeatherAlert, 0, len(alerts))
	for _, a := range alerts {
		if keep(a) {
			kept = append(kept, a)
		}
	}
	return kept, nil
}
