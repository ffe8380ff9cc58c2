package service

import (
	"errors"
	"strings"

	"farmconnect/pkg/domain/model"
)

var ErrIngredientRequired = errors.New("ingredient name is required")

type MealKitService interface {
	Create(name string, ingredients []string, dietType string) (*model.MealKit, error)
	AddIngredient(mealKitID int64, ingredient string) (*model.MealKit, error)
	RemoveIngredient(mealKitID int64, ingredient string) (*model.MealKit, error)
	Customize(mealKitID int64, vegetarian, vegan bool) (*model.MealKit, error)
	Subscribe(mealKitID int64, frequency string) (*model.MealKit, error)
	Find(mealKitID int64) (*model.MealKit, error)
	List() ([]model.MealKit, error)
}

func NewMealKitService(repo model.MealKitRepository, dispatcher EventDispatcher) MealKitService {
	return &mealKitService{repo: repo, dispatcher: dispatcher}
}

type mealKitService struct {
	repo       model.MealKitRepository
	dispatcher EventDispatcher
}

func (s *mealKitService) Create(name string, ingredients []string, dietType string) (*model.MealKit, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrProductNameMissing
	}

	id, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	kit := model.NewMealKit(id, name, ingredients, dietType)
	if err := s.repo.Create(kit); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.MealKitChanged{MealKitID: id, Price: kit.Price})
	return kit, nil
}

func (s *mealKitService) AddIngredient(mealKitID int64, ingredient string) (*model.MealKit, error) {
	if strings.TrimSpace(ingredient) == "" {
		return nil, ErrIngredientRequired
	}
	return s.executeOnKit(mealKitID, func(k *model.MealKit) error {
		k.AddIngredient(ingredient)
		return nil
	})
}

func (s *mealKitService) RemoveIngredient(mealKitID int64, ingredient string) (*model.MealKit, error) {
	return s.executeOnKit(mealKitID, func(k *model.MealKit) error {
		return k.RemoveIngredient(ingredient)
	})
}

func (s *mealKitService) Customize(mealKitID int64, vegetarian, vegan bool) (*model.MealKit, error) {
	return s.executeOnKit(mealKitID, func(k *model.MealKit) error {
		k.Customize(vegetarian, vegan)
		return nil
	})
}

func (s *mealKitService) Subscribe(mealKitID int64, frequency string) (*model.MealKit, error) {
	if frequency == "" {
		frequency = "weekly"
	}
	return s.executeOnKit(mealKitID, func(k *model.MealKit) error {
		k.Subscribe(frequency)
		return nil
	})
}

func (s *mealKitService) Find(mealKitID int64) (*model.MealKit, error) {
	return s.repo.Find(mealKitID)
}

func (s *mealKitService) List() ([]model.MealKit, error) {
	return s.repo.List()
}

func (s *mealKitService) executeOnKit(mealKitID int64, action func(k *model.MealKit) error) (*model.MealKit, error) {
	kit, err := s.repo.Find(mealKitID)
	if err != nil {
		return nil, err
	}

	if err := action(kit); err != nil {
		return nil, err
	}

	if err := s.repo.Update(kit); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.MealKitChanged{MealKitID: mealKitID, Price: kit.Price})
	return kit, nil
}
