package transport

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/domain/service"
)

// accountView is an account as the admin board sees it, without the hash.
type accountView struct {
	ID           int64               `json:"id"`
	Role         model.Role          `json:"type"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone,omitempty"`
	FarmName     string              `json:"farmName,omitempty"`
	FarmType     string              `json:"farmType,omitempty"`
	Status       model.AccountStatus `json:"status"`
	StatusReason string              `json:"statusReason,omitempty"`
	Registered   time.Time           `json:"registered"`
}

func viewAccount(a model.Account) accountView {
	return accountView{
		ID:           a.ID,
		Role:         a.Role,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		FarmName:     a.FarmName,
		FarmType:     a.FarmType,
		Status:       a.Status,
		StatusReason: a.StatusReason,
		Registered:   a.Registered,
	}
}

func viewAccounts(accounts []model.Account) []accountView {
	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, viewAccount(a))
	}
	return views
}

type loginResult struct {
	Token      string      `json:"token"`
	ExpiresAt  time.Time   `json:"expiresAt"`
	User       *model.User `json:"user"`
	EntryPoint string      `json:"entryPoint"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var registration service.Registration
	if err := decode(r, &registration); err != nil {
		respondError(w, err)
		return
	}

	account, err := h.services.Accounts.Register(registration)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Registration received, awaiting approval", viewAccount(*account))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &credentials); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.services.Accounts.Authenticate(credentials.Email, credentials.Password)
	if err != nil {
		log.WithError(err).WithField("email", credentials.Email).Warn("login refused")
		respondError(w, err)
		return
	}

	token, expires, err := h.tokens.Issue(user)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Welcome, "+user.Name, loginResult{
		Token:      token,
		ExpiresAt:  expires,
		User:       user,
		EntryPoint: model.EntryPoint(user.Role),
	})
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	if err := h.services.Session.Logout(); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Logged out", nil)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "", userFrom(r))
}

// entry names the dashboard for whoever holds the session, if anyone.
func (h *Handler) entry(w http.ResponseWriter, _ *http.Request) {
	user, ok, err := h.services.Session.CurrentUser()
	if err != nil {
		respondError(w, err)
		return
	}
	var role model.Role
	if ok {
		role = user.Role
	}
	respond(w, http.StatusOK, "", map[string]string{"entryPoint": model.EntryPoint(role)})
}
