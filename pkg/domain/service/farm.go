package service

import (
	"farmconnect/pkg/domain/model"
)

type FarmService interface {
	Update(farmID int64, patch model.FarmPatch) (*model.Farm, error)
	Find(farmID int64) (*model.Farm, error)
	List() ([]model.Farm, error)
}

func NewFarmService(repo model.FarmRepository, dispatcher EventDispatcher) FarmService {
	return &farmService{repo: repo, dispatcher: dispatcher}
}

type farmService struct {
	repo       model.FarmRepository
	dispatcher EventDispatcher
}

func (s *farmService) Update(farmID int64, patch model.FarmPatch) (*model.Farm, error) {
	farm, err := s.repo.Find(farmID)
	if err != nil {
		return nil, err
	}

	patch.Apply(farm)
	if err := s.repo.Update(farm); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.FarmUpdated{FarmID: farmID})
	return farm, nil
}

func (s *farmService) Find(farmID int64) (*model.Farm, error) {
	return s.repo.Find(farmID)
}

func (s *farmService) List() ([]model.Farm, error) {
	return s.repo.List()
}
