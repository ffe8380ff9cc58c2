package transport

import (
	"net/http"

	"github.com/gorilla/mux"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/domain/service"
)

func ackStatus(ack service.Acknowledgement) int {
	if ack.Success {
		return http.StatusCreated
	}
	return http.StatusBadRequest
}

func (h *Handler) requestAddProduct(w http.ResponseWriter, r *http.Request) {
	farmer, ok := h.asFarmer(w)
	if !ok {
		return
	}
	var input service.NewProduct
	if err := decode(r, &input); err != nil {
		respondError(w, err)
		return
	}
	ack, err := farmer.RequestAddProduct(input)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, ackStatus(ack), ack)
}

func (h *Handler) requestUpdateProduct(w http.ResponseWriter, r *http.Request) {
	farmer, ok := h.asFarmer(w)
	if !ok {
		return
	}
	var body struct {
		ProductID   int64                 `json:"productId"`
		Description string                `json:"description"`
		Change      model.RequestedChange `json:"change"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	ack, err := farmer.RequestUpdateProduct(body.ProductID, body.Description, body.Change)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, ackStatus(ack), ack)
}

func (h *Handler) requestRemoveProduct(w http.ResponseWriter, r *http.Request) {
	farmer, ok := h.asFarmer(w)
	if !ok {
		return
	}
	var body struct {
		ProductID int64  `json:"productId"`
		Reason    string `json:"reason"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	ack, err := farmer.RequestRemoveProduct(body.ProductID, body.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, ackStatus(ack), ack)
}

func (h *Handler) myRequests(w http.ResponseWriter, _ *http.Request) {
	farmer, ok := h.asFarmer(w)
	if !ok {
		return
	}
	requests, err := farmer.MyRequests()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", requests)
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.asAdmin(w); !ok {
		return
	}
	filter := model.RequestFilter{FarmerEmail: r.URL.Query().Get("farmer")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		var status model.RequestStatus
		if err := status.UnmarshalText([]byte(raw)); err != nil {
			respondError(w, errBadRequest)
			return
		}
		filter.Status = &status
	}

	requests, err := h.services.Requests.List(filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", requests)
}

// pendingRequests backs both the review queue and the badge count.
func (h *Handler) pendingRequests(w http.ResponseWriter, _ *http.Request) {
	if _, ok := h.asAdmin(w); !ok {
		return
	}
	pending, err := h.services.Requests.Pending()
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		response
		Count int `json:"count"`
	}{response{Success: true, Data: pending}, len(pending)})
}

func (h *Handler) approveRequest(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var approval service.Approval
	if err := decode(r, &approval); err != nil {
		respondError(w, err)
		return
	}
	request, err := admin.ApproveRequest(id, approval)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Request approved", request)
}

func (h *Handler) rejectRequest(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var body reasonBody
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	request, err := admin.RejectRequest(id, body.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Request rejected", request)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.asAdmin(w); !ok {
		return
	}
	query := r.URL.Query()
	filter := model.AccountFilter{Search: query.Get("search"), Role: model.Role(query.Get("role"))}
	if raw := query.Get("status"); raw != "" {
		var status model.AccountStatus
		if err := status.UnmarshalText([]byte(raw)); err != nil {
			respondError(w, errBadRequest)
			return
		}
		filter.Status = &status
	}

	accounts, err := h.services.Accounts.Filter(filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", viewAccounts(accounts))
}

func (h *Handler) changeAccountStatus(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
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

	var account *model.Account
	switch mux.Vars(r)["action"] {
	case "approve":
		account, err = admin.ApproveAccount(id)
	case "reject":
		account, err = admin.RejectAccount(id, body.Reason)
	case "ban":
		account, err = admin.BanAccount(id, body.Reason)
	case "unban":
		account, err = admin.UnbanAccount(id)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Account "+account.Status.String(), viewAccount(*account))
}

func (h *Handler) broadcast(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.asAdmin(w); !ok {
		return
	}
	var body struct {
		Recipients []string `json:"recipients"`
		Message    string   `json:"message"`
	}
	if err := decode(r, &body); err != nil {
		respondError(w, err)
		return
	}
	if body.Message == "" {
		respondError(w, errBadRequest)
		return
	}

	recipients := body.Recipients
	if len(recipients) == 0 {
		active := model.AccountActive
		accounts, err := h.services.Accounts.Filter(model.AccountFilter{Status: &active})
		if err != nil {
			respondError(w, err)
			return
		}
		for _, a := range accounts {
			recipients = append(recipients, a.Email)
		}
	}

	if err := h.services.Notifications.Broadcast(recipients, body.Message); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Notification sent", map[string]int{"recipients": len(recipients)})
}

func (h *Handler) dashboard(w http.ResponseWriter, _ *http.Request) {
	admin, ok := h.asAdmin(w)
	if !ok {
		return
	}
	stats, err := admin.Dashboard()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", stats)
}

func (h *Handler) monitorSnapshot(w http.ResponseWriter, _ *http.Request) {
	if _, ok := h.asAdmin(w); !ok {
		return
	}
	if h.monitor == nil {
		respond(w, http.StatusOK, "monitor disabled", nil)
		return
	}
	respond(w, http.StatusOK, "", h.monitor.Snapshot())
}
