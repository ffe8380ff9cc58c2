package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrMealKitNotFound    = errors.New("meal kit not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

var (
	mealKitBasePrice     = decimal.NewFromInt(10)
	mealKitIngredientFee = decimal.NewFromInt(2)
)

type MealKitStatus int

const (
	MealKitAvailable MealKitStatus = iota
	MealKitSubscribed
)

var mealKitStatusNames = []string{"available", "subscribed"}

func (s MealKitStatus) String() string { return enumName(mealKitStatusNames, int(s)) }

func (s MealKitStatus) Valid() bool { return enumValid(mealKitStatusNames, int(s)) }

func (s MealKitStatus) MarshalText() ([]byte, error) {
	return marshalEnum("meal kit status", mealKitStatusNames, int(s))
}

func (s *MealKitStatus) UnmarshalText(text []byte) error {
	v, err := parseEnum("meal kit status", mealKitStatusNames, text)
	*s = MealKitStatus(v)
	return err
}

const (
	DietRegular    = "regular"
	DietVegetarian = "vegetarian"
	DietVegan      = "vegan"
)

type MealKit struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Ingredients       []string        `json:"ingredients"`
	DietType          string          `json:"dietType"`
	Price             decimal.Decimal `json:"price"`
	Status            MealKitStatus   `json:"status"`
	DeliveryFrequency string          `json:"deliveryFrequency,omitempty"`
}

func NewMealKit(id int64, name string, ingredients []string, dietType string) *MealKit {
	kit := &MealKit{
		ID:          id,
		Name:        name,
		Ingredients: append([]string{}, ingredients...),
		DietType:    dietType,
		Status:      MealKitAvailable,
	}
	if kit.DietType == "" {
		kit.DietType = DietRegular
	}
	kit.Price = kit.CalculatePrice()
	return kit
}

// CalculatePrice depends on the ingredient count only.
func (k *MealKit) CalculatePrice() decimal.Decimal {
	return mealKitBasePrice.Add(mealKitIngredientFee.Mul(decimal.NewFromInt(int64(len(k.Ingredients)))))
}

func (k *MealKit) AddIngredient(ingredient string) {
	k.Ingredients = append(k.Ingredients, ingredient)
	k.Price = k.CalculatePrice()
}

func (k *MealKit) RemoveIngredient(ingredient string) error {
	for i, existing := range k.Ingredients {
		if existing == ingredient {
			k.Ingredients = append(k.Ingredients[:i], k.Ingredients[i+1:]...)
			k.Price = k.CalculatePrice()
			return nil
		}
	}
	return ErrIngredientNotFound
}

// Customize overwrites the diet type; vegan takes precedence over vegetarian.
func (k *MealKit) Customize(vegetarian, vegan bool) {
	switch {
	case vegan:
		k.DietType = DietVegan
	case vegetarian:
		k.DietType = DietVegetarian
	default:
		k.DietType = DietRegular
	}
}

func (k *MealKit) Subscribe(frequency string) {
	k.Status = MealKitSubscribed
	k.DeliveryFrequency = frequency
}

type MealKitRepository interface {
	NextID() (int64, error)
	Create(kit *MealKit) error
	Update(kit *MealKit) error
	Find(id int64) (*MealKit, error)
	List() ([]MealKit, error)
}
