package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/infrastructure/storage"
)

//go:embed seed.yaml
var defaultSeed []byte

// Document is the seed file. Every section is decoded into the domain type
// it seeds, so a typo in an enum fails the seed instead of the first read.
type Document struct {
	Accounts       []any `yaml:"accounts"`
	Products       []any `yaml:"products"`
	Farms          []any `yaml:"farms"`
	FarmerRequests []any `yaml:"farmerRequests"`
	WeatherAlerts  []any `yaml:"weatherAlerts"`
	MarketPrices   []any `yaml:"marketPrices"`
	ForumPosts     []any `yaml:"forumPosts"`
	MealKits       []any `yaml:"mealKits"`
}

type Seeder struct {
	store       storage.Store
	passManager model.PasswordManager
	now         func() time.Time
}

func NewSeeder(store storage.Store, passManager model.PasswordManager) *Seeder {
	return &Seeder{store: store, passManager: passManager, now: func() time.Time { return time.Now().UTC() }}
}

// Run seeds from the embedded demo data.
func (s *Seeder) Run(ctx context.Context) ([]string, error) {
	return s.RunDocument(ctx, defaultSeed)
}

// RunDocument fills the slots that are absent from the store and returns
// their names. Present slots are never overwritten, even when empty.
func (s *Seeder) RunDocument(ctx context.Context, data []byte) ([]string, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse seed")
	}

	now := s.now()
	steps := []struct {
		slot string
		fill func(ctx context.Context, slot string) error
	}{
		{storage.SlotUsers, func(ctx context.Context, slot string) error {
			return fill(ctx, s.store, slot, doc.Accounts, func(accounts []model.Account) error {
				for i := range accounts {
					hashed, err := s.passManager.Hash(accounts[i].Password)
					if err != nil {
						return err
					}
					accounts[i].Password = hashed
					if accounts[i].Registered.IsZero() {
						accounts[i].Registered = now
					}
				}
				return nil
			})
		}},
		{storage.SlotProducts, func(ctx context.Context, slot string) error {
			return fill(ctx, s.store, slot, doc.Products, func(products []model.Product) error {
				for i := range products {
					if products[i].Version == 0 {
						products[i].Version = 1
					}
					if products[i].CreatedAt.IsZero() {
						products[i].CreatedAt = now
						products[i].UpdatedAt = now
					}
				}
				return nil
			})
		}},
		{storage.SlotFarms, func(ctx context.Context, slot string) error {
			return fill[model.Farm](ctx, s.store, slot, doc.Farms, nil)
		}},
		{storage.SlotFarmerRequests, func(ctx context.Context, slot string) error {
			return fill[model.FarmerRequest](ctx, s.store, slot, doc.FarmerRequests, nil)
		}},
		{storage.SlotWeatherAlerts, func(ctx context.Context, slot string) error {
			return fill[model.WeatherAlert](ctx, s.store, slot, doc.WeatherAlerts, nil)
		}},
		{storage.SlotMarketPrices, func(ctx context.Context, slot string) error {
			return fill[model.MarketPrice](ctx, s.store, slot, doc.MarketPrices, nil)
		}},
		{storage.SlotForumPosts, func(ctx context.Context, slot string) error {
			return fill[model.ForumPost](ctx, s.store, slot, doc.ForumPosts, nil)
		}},
		{storage.SlotMealKits, func(ctx context.Context, slot string) error {
			return fill(ctx, s.store, slot, doc.MealKits, func(kits []model.MealKit) error {
				for i := range kits {
					kits[i].Price = kits[i].CalculatePrice()
				}
				return nil
			})
		}},
	}

	var seeded []string
	for _, step := range steps {
		present, err := storage.Has(ctx, s.store, step.slot)
		if err != nil {
			return seeded, err
		}
		if present {
			log.WithField("slot", step.slot).Debug("slot present, not seeding")
			continue
		}
		if err := step.fill(ctx, step.slot); err != nil {
			return seeded, errors.Wrapf(err, "seed %s", step.slot)
		}
		seeded = append(seeded, step.slot)
	}

	log.WithField("slots", seeded).Info("seed finished")
	return seeded, nil
}

// fill converts the YAML section to the slot's JSON through the domain type.
func fill[T any](ctx context.Context, store storage.Store, slot string, section []any, prepare func([]T) error) error {
	raw, err := json.Marshal(section)
	if err != nil {
		return errors.Wrap(err, "convert section")
	}

	items := make([]T, 0, len(section))
	if len(section) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return errors.Wrap(err, "decode section")
		}
	}
	if prepare != nil {
		if err := prepare(items); err != nil {
			return err
		}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encode section")
	}
	return store.Set(ctx, slot, data)
}
