// internal/handlers/session.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/jason-s-yu/roshambo/internal/auth"
)

type sessionRequest struct {
	Account string `json:"account"`
}

// SessionHandler issues a signed token for the named account and sets it as the auth cookie.
// Any name is accepted without proof of ownership, and call deposits are read from the
// request body as claimed by the client. Only run this on a development host.
func SessionHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	account := strings.TrimSpace(req.Account)
	if account == "" {
		http.Error(w, "account is required", http.StatusBadRequest)
		return
	}

	token, err := auth.CreateJWT(account)
	if err != nil {
		http.Error(w, "failed to create token", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"account": account, "token": token})
}
