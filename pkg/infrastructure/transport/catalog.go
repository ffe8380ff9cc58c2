package transport

import (
	"net/http"
	"strings"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/domain/service"
)

func (h *Handler) asAdmin(w http.ResponseWriter) (service.AdminCapabilities, bool) {
	admin, err := h.console.Admin()
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	return admin, true
}

func (h *Handler) asFarmer(w http.ResponseWriter) (service.FarmerCapabilities, bool) {
	farmer, err := h.console.Farmer()
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	return farmer, true
}

func (h *Handler) asBuyer(w http.ResponseWriter) (service.BuyerCapabilities, bool) {
	buyer, err := h.console.Buyer()
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	return buyer, true
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.ProductFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Farm:     query.Get("farm"),
	}
	if raw := query.Get("status"); raw != "" {
		var status model.ProductStatus
		if err := status.UnmarshalText([]byte(raw)); err != nil {
			respondError(w, errBadRequest)
			return
		}
		filter.Status = &status
	}

	products, err := h.services.Catalog.Filter(filter.Match)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	product, err := h.services.Catalog.Find(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", product)
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	var input service.NewProduct
	if err := decode(r, &input); err != nil {
		respondError(w, err)
		return
	}
	product, err := admin.AddProduct(input)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Product added to catalog", product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var patch model.ProductPatch
	if err := decode(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	product, err := admin.UpdateProduct(id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Product updated", product)
}

func (h *Handler) changeProductPrice(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		Price priceInput `json:"price"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	product, err := admin.ChangeProductPrice(id, string(body.Price))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Price updated", product)
}

func (h *Handler) removeProduct(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := admin.RemoveProduct(id); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Product deleted from catalog", nil)
}

func (h *Handler) listFarms(w http.ResponseWriter, _ *http.Request) {
	farms, err := h.services.Farms.List()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", farms)
}

func (h *Handler) getFarm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	farm, err := h.services.Farms.Find(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", farm)
}

func (h *Handler) updateFarm(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var patch model.FarmPatch
	if err := decode(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	farm, err := admin.UpdateFarm(id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Farm information updated", farm)
}

func (h *Handler) listMarketPrices(w http.ResponseWriter, _ *http.Request) {
	prices, err := h.services.Market.List()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", prices)
}

func (h *Handler) publishMarketPrice(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	var body struct {
		Product    string      `json:"product"`
		Market     string      `json:"market"`
		Price      priceInput  `json:"price"`
		Trend      model.Trend `json:"trend"`
		Suggestion string      `json:"suggestion"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	entry, err := admin.PublishMarketPrice(body.Product, body.Market, string(body.Price), body.Trend, body.Suggestion)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Market price published", entry)
}

func (h *Handler) updateMarketPrice(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	var body struct {
		Product string     `json:"product"`
		Price   priceInput `json:"price"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	entry, err := admin.UpdateMarketPrice(body.Product, string(body.Price))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Market price updated", entry)
}

// listWeatherAlerts shows active alerts, narrowed by ?region= or widened to
// retired ones by ?all=true.
func (h *Handler) listWeatherAlerts(w http.ResponseWriter, r *http.Request) {
	var (
		alerts []model.WeatherAlert
		err    error
	)
	query := r.URL.Query()
	switch {
	case query.Get("region") != "":
		alerts, err = h.services.Weather.ForRegion(query.Get("region"))
	case strings.EqualFold(query.Get("all"), "true"):
		alerts, err = h.services.Weather.List()
	default:
		alerts, err = h.services.Weather.Active()
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", alerts)
}

func (h *Handler) publishWeatherAlert(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	var input service.NewWeatherAlert
	if err := decode(r, &input); err != nil {
		respondError(w, err)
		return
	}
	alert, err := admin.PublishWeatherAlert(input)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Weather alert published", alert)
}

func (h *Handler) retireWeatherAlert(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	alert, err := admin.RetireWeatherAlert(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Weather alert retired", alert)
}

func (h *Handler) listForumPosts(w http.ResponseWriter, _ *http.Request) {
	posts, err := h.services.Forum.List()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", posts)
}

func (h *Handler) askQuestion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Question string `json:"question"`
		Category string `json:"category"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	post, err := h.services.Forum.Ask(body.Question, body.Category, userFrom(r).Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Question posted", post)
}

func (h *Handler) answerQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	post, err := h.services.Forum.Answer(id, userFrom(r).Name, body.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Answer posted", post)
}
