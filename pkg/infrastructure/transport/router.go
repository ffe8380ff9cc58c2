package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"farmconnect/pkg/domain/service"
	"farmconnect/pkg/infrastructure/monitor"
)

type Config struct {
	AllowedOrigins    []string
	AuthRatePerMinute int
	AuthRateBurst     int
}

type Handler struct {
	console  *service.Console
	services service.Services
	tokens   *TokenIssuer
	monitor  *monitor.Monitor
}

// Router serves the JSON API under /api/v1 and, when feed is set, the
// websocket feed at /ws/feed.
func Router(console *service.Console, tokens *TokenIssuer, mon *monitor.Monitor, feed http.Handler, cfg Config) http.Handler {
	h := &Handler{
		console:  console,
		services: console.Services(),
		tokens:   tokens,
		monitor:  mon,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	if feed != nil {
		r.Handle("/ws/feed", feed)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(newRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst).middleware)
	auth.HandleFunc("/register", h.register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.login).Methods(http.MethodPost)
	auth.HandleFunc("/entry", h.entry).Methods(http.MethodGet)

	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", h.getProduct).Methods(http.MethodGet)
	api.HandleFunc("/farms", h.listFarms).Methods(http.MethodGet)
	api.HandleFunc("/farms/{id:[0-9]+}", h.getFarm).Methods(http.MethodGet)
	api.HandleFunc("/market", h.listMarketPrices).Methods(http.MethodGet)
	api.HandleFunc("/weather", h.listWeatherAlerts).Methods(http.MethodGet)
	api.HandleFunc("/forum", h.listForumPosts).Methods(http.MethodGet)
	api.HandleFunc("/mealkits", h.listMealKits).Methods(http.MethodGet)

	s := api.NewRoute().Subrouter()
	s.Use(h.requireSession)

	s.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	s.HandleFunc("/auth/me", h.me).Methods(http.MethodGet)

	s.HandleFunc("/products", h.addProduct).Methods(http.MethodPost)
	s.HandleFunc("/products/{id:[0-9]+}", h.updateProduct).Methods(http.MethodPatch)
	s.HandleFunc("/products/{id:[0-9]+}/price", h.changeProductPrice).Methods(http.MethodPut)
	s.HandleFunc("/products/{id:[0-9]+}", h.removeProduct).Methods(http.MethodDelete)

	s.HandleFunc("/requests", h.listRequests).Methods(http.MethodGet)
	s.HandleFunc("/requests/pending", h.pendingRequests).Methods(http.MethodGet)
	s.HandleFunc("/requests/mine", h.myRequests).Methods(http.MethodGet)
	s.HandleFunc("/requests/add", h.requestAddProduct).Methods(http.MethodPost)
	s.HandleFunc("/requests/update", h.requestUpdateProduct).Methods(http.MethodPost)
	s.HandleFunc("/requests/remove", h.requestRemoveProduct).Methods(http.MethodPost)
	s.HandleFunc("/requests/{id:[0-9]+}/approve", h.approveRequest).Methods(http.MethodPost)
	s.HandleFunc("/requests/{id:[0-9]+}/reject", h.rejectRequest).Methods(http.MethodPost)

	s.HandleFunc("/accounts", h.listAccounts).Methods(http.MethodGet)
	s.HandleFunc("/accounts/{id:[0-9]+}/{action:approve|reject|ban|unban}", h.changeAccountStatus).Methods(http.MethodPost)

	s.HandleFunc("/weather", h.publishWeatherAlert).Methods(http.MethodPost)
	s.HandleFunc("/weather/{id:[0-9]+}", h.retireWeatherAlert).Methods(http.MethodDelete)
	s.HandleFunc("/market", h.publishMarketPrice).Methods(http.MethodPost)
	s.HandleFunc("/market/price", h.updateMarketPrice).Methods(http.MethodPut)
	s.HandleFunc("/farms/{id:[0-9]+}", h.updateFarm).Methods(http.MethodPatch)

	s.HandleFunc("/cart", h.cart).Methods(http.MethodGet)
	s.HandleFunc("/cart/{id:[0-9]+}", h.addToCart).Methods(http.MethodPost)
	s.HandleFunc("/cart/{id:[0-9]+}", h.removeFromCart).Methods(http.MethodDelete)
	s.HandleFunc("/checkout", h.checkout).Methods(http.MethodPost)
	s.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	s.HandleFunc("/orders/{id}/cancel", h.cancelOrder).Methods(http.MethodPost)
	s.HandleFunc("/orders/{id}/confirm", h.confirmOrder).Methods(http.MethodPost)
	s.HandleFunc("/orders/{id}/mealkits/{kit:[0-9]+}", h.addMealKitToOrder).Methods(http.MethodPost)

	s.HandleFunc("/mealkits", h.createMealKit).Methods(http.MethodPost)
	s.HandleFunc("/mealkits/{id:[0-9]+}/ingredients", h.addIngredient).Methods(http.MethodPost)
	s.HandleFunc("/mealkits/{id:[0-9]+}/ingredients/{ingredient}", h.removeIngredient).Methods(http.MethodDelete)
	s.HandleFunc("/mealkits/{id:[0-9]+}/customize", h.customizeMealKit).Methods(http.MethodPost)
	s.HandleFunc("/mealkits/{id:[0-9]+}/subscribe", h.subscribeMealKit).Methods(http.MethodPost)

	s.HandleFunc("/notifications", h.notifications).Methods(http.MethodGet)
	s.HandleFunc("/notifications/broadcast", h.broadcast).Methods(http.MethodPost)

	s.HandleFunc("/forum", h.askQuestion).Methods(http.MethodPost)
	s.HandleFunc("/forum/{id:[0-9]+}/answers", h.answerQuestion).Methods(http.MethodPost)

	s.HandleFunc("/dashboard", h.dashboard).Methods(http.MethodGet)
	s.HandleFunc("/monitor", h.monitorSnapshot).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return logMiddleware(recoverMiddleware(c.Handler(r)))
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, "ok", nil)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

// priceInput accepts a price typed as a JSON string or a bare number and
// keeps the raw text for the services to validate.
type priceInput string

func (p *priceInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = priceInput(s)
		return nil
	}
	*p = priceInput(data)
	return nil
}

type reasonBody struct {
	Reason string `json:"reason"`
}
