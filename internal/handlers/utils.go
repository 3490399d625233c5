// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jason-s-yu/roshambo/internal/auth"
	"github.com/jason-s-yu/roshambo/internal/models"
)

const authCookie = "auth_token"

// errMissingToken marks a request without an auth_token cookie.
var errMissingToken = errors.New("missing auth_token")

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// callerFromRequest resolves the account named by the session cookie.
func callerFromRequest(r *http.Request) (models.AccountID, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), authCookie)
	if token == "" {
		return "", errMissingToken
	}
	sub, err := auth.AuthenticateJWT(token)
	if err != nil {
		return "", err
	}
	return models.AccountID(sub), nil
}

// requireCaller writes the auth failure itself and reports whether the handler may continue.
func requireCaller(w http.ResponseWriter, r *http.Request) (models.AccountID, bool) {
	caller, err := callerFromRequest(r)
	if errors.Is(err, errMissingToken) {
		http.Error(w, "missing auth_token", http.StatusUnauthorized)
		return "", false
	}
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return "", false
	}
	return caller, true
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("bad request payload: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an operation error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrNoSuchRequest):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInsufficientFee):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrAlreadyMember),
		errors.Is(err, models.ErrDuplicatePending),
		errors.Is(err, models.ErrRequestClosed),
		errors.Is(err, models.ErrRoomIsPrivate),
		errors.Is(err, models.ErrRoomIsPublic),
		errors.Is(err, models.ErrGameFull),
		errors.Is(err, models.ErrSelfPlay),
		errors.Is(err, models.ErrGameCompleted),
		errors.Is(err, models.ErrNotCompleted),
		errors.Is(err, models.ErrAlreadySettled):
		return http.StatusConflict
	case errors.Is(err, models.ErrRandomness):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// requirePost rejects anything but POST.
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func queryID(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	id := r.URL.Query().Get(key)
	if id == "" {
		http.Error(w, "missing "+key, http.StatusBadRequest)
		return "", false
	}
	return id, true
}
