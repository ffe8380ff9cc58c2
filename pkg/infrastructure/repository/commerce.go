package repository

import (
	"github.com/google/uuid"

	"farmconnect/pkg/domain/model"
)

var _ model.OrderRepository = &orderRepository{}

type orderRepository struct {
	orders *collection[model.Order]
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.orders.update(func(items []model.Order) ([]model.Order, error) {
		return append(items, *order), nil
	})
}

func (r *orderRepository) Update(order *model.Order) error {
	return r.orders.replace(*order,
		func(o model.Order) bool { return o.ID == order.ID },
		func(stored model.Order) error {
			if stored.Version >= order.Version {
				return model.ErrOptimisticLock
			}
			return nil
		},
		model.ErrOrderNotFound,
	)
}

func (r *orderRepository) Find(id uuid.UUID) (*model.Order, error) {
	return r.orders.find(func(o model.Order) bool { return o.ID == id }, model.ErrOrderNotFound)
}

func (r *orderRepository) List() ([]model.Order, error) {
	return r.orders.list()
}

var _ model.MealKitRepository = &mealKitRepository{}

type mealKitRepository struct {
	kits *collection[model.MealKit]
	seq  *sequences
}

func (r *mealKitRepository) NextID() (int64, error) {
	return nextID(r.seq, r.kits, func(k model.MealKit) int64 { return k.ID })
}

func (r *mealKitRepository) Create(kit *model.MealKit) error {
	return r.kits.update(func(items []model.MealKit) ([]model.MealKit, error) {
		return append(items, *kit), nil
	})
}

func (r *mealKitRepository) Update(kit *model.MealKit) error {
	return r.kits.replace(*kit, func(k model.MealKit) bool { return k.ID == kit.ID }, nil, model.ErrMealKitNotFound)
}

func (r *mealKitRepository) Find(id int64) (*model.MealKit, error) {
	return r.kits.find(func(k model.MealKit) bool { return k.ID == id }, model.ErrMealKitNotFound)
}

func (r *mealKitRepository) List() ([]model.MealKit, error) {
	return r.kits.list()
}

var _ model.WeatherAlertRepository = &weatherAlertRepository{}

type weatherAlertRepository struct {
	alerts *collection[model.WeatherAlert]
	seq    *sequences
}

func (r *weatherAlertRepository) NextID() (int64, error) {
	return nextID(r.seq, r.alerts, func(a model.WeatherAlert) int64 { return a.ID })
}

func (r *weatherAlertRepository) Create(alert *model.WeatherAlert) error {
	return r.alerts.update(func(items []model.WeatherAlert) ([]model.WeatherAlert, error) {
		return append(items, *alert), nil
	})
}

func (r *weatherAlertRepository) Update(alert *model.WeatherAlert) error {
	return r.alerts.replace(*alert, func(a model.WeatherAlert) bool { return a.ID == alert.ID }, nil, model.ErrAlertNotFound)
}

func (r *weatherAlertRepository) Find(id int64) (*model.WeatherAlert, error) {
	return r.alerts.find(func(a model.WeatherAlert) bool { return a.ID == id }, model.ErrAlertNotFound)
}

func (r *weatherAlertRepository) List() ([]model.WeatherAlert, error) {
	return r.alerts.list()
}

var _ model.ForumPostRepository = &forumPostRepository{}

type forumPostRepository struct {
	posts *collection[model.ForumPost]
	seq   *sequences
}

func (r *forumPostRepository) NextID() (int64, error) {
	return nextID(r.seq, r.posts, func(p model.ForumPost) int64 { return p.ID })
}

func (r *forumPostRepository) Create(post *model.ForumPost) error {
	return r.posts.update(func(items []model.ForumPost) ([]model.ForumPost, error) {
		return append(items, *post), nil
	})
}

func (r *forumPostRepository) Update(post *model.ForumPost) error {
	return r.posts.replace(*post, func(p model.ForumPost) bool { return p.ID == post.ID }, nil, model.ErrPostNotFound)
}

func (r *forumPostRepository) Find(id int64) (*model.ForumPost, error) {
	return r.posts.find(func(p model.ForumPost) bool { return p.ID == id }, model.ErrPostNotFound)
}

func (r *forumPostRepository) List() ([]model.ForumPost, error) {
	return r.posts.list()
}
