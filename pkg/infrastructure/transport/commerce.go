package transport

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"farmconnect/pkg/domain/model"
)

type cartView struct {
	Items []model.Product `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func orderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

func (h *Handler) cart(w http.ResponseWriter, _ *http.Request) {
	buyer, ok := h.asBuyer(w)
	if !ok {
		return
	}
	items, total, err := buyer.Cart()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", cartView{Items: items, Total: total})
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	buyer, ok := h.asBuyer(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	items, err := buyer.AddToCart(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Added to cart", items)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	buyer, ok := h.asBuyer(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	items, err := buyer.RemoveFromCart(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Removed from cart", items)
}

func (h *Handler) checkout(w http.ResponseWriter, _ *http.Request) {
	buyer, ok := h.asBuyer(w)
	if !ok {
		return
	}
	order, err := buyer.Checkout()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Order placed", order)
}

// listOrders shows a buyer their own orders and an admin every order.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []model.Order
		err    error
	)
	switch userFrom(r).Role {
	case model.RoleAdmin:
		orders, err = h.services.Orders.List()
	default:
		buyer, ok := h.asBuyer(w)
		if !ok {
			return
		}
		orders, err = buyer.Orders()
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", orders)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	buyer, ok := h.asBuyer(w)
	if !ok {
		return
	}
	id, err := orderID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var body reasonBody
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			respondError(w, err)
			return
		}
	}
	order, err := buyer.CancelOrder(id, body.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Order cancelled", order)
}

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	id, err := orderID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	order, err := admin.ConfirmOrder(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Order confirmed", order)
}

func (h *Handler) addMealKitToOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.asAdmin(w); !ok {
		return
	}
	id, err := orderID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	kitID, err := pathID(r, "kit")
	if err != nil {
		respondError(w, err)
		return
	}
	order, err := h.services.Orders.AddMealKit(id, kitID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Meal kit added to order", order)
}

func (h *Handler) listMealKits(w http.ResponseWriter, _ *http.Request) {
	kits, err := h.services.MealKits.List()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", kits)
}

func (h *Handler) createMealKit(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.asAdmin(w); !ok {
		return
	}
	var body struct {
		Name        string   `json:"name"`
		Ingredients []string `json:"ingredients"`
		DietType    string   `json:"dietType"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	kit, err := h.services.MealKits.Create(body.Name, body.Ingredients, body.DietType)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Meal kit created", kit)
}

func (h *Handler) addIngredient(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.asAdmin(w); !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		Ingredient string `json:"ingredient"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	kit, err := h.services.MealKits.AddIngredient(id, body.Ingredient)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Ingredient added", kit)
}

func (h *Handler) removeIngredient(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.asAdmin(w); !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	kit, err := h.services.MealKits.RemoveIngredient(id, mux.Vars(r)["ingredient"])
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Ingredient removed", kit)
}

func (h *Handler) customizeMealKit(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.asBuyer(w); !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		Vegetarian bool `json:"vegetarian"`
		Vegan      bool `json:"vegan"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	kit, err := h.services.MealKits.Customize(id, body.Vegetarian, body.Vegan)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Meal kit customized", kit)
}

func (h *Handler) subscribeMealKit(w http.ResponseWriter, r *http.Request) {
	buyer, ok := h.asBuyer(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		Frequency string `json:"frequency"`
	}
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			respondError(w, err)
			return
		}
	}
	kit, err := buyer.SubscribeMealKit(id, body.Frequency)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Subscribed", kit)
}

func (h *Handler) notifications(w http.ResponseWriter, _ *http.Request) {
	buyer, ok := h.asBuyer(w)
	if !ok {
		return
	}
	notes, err := buyer.Notifications()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", notes)
}
