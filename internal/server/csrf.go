package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
)

// csrfField is the hidden input carrying the double-submit token.
const csrfField = "csrf_token"

// ensureCSRF returns the token from the request cookie, issuing a new one
// when the cookie is missing.
func (s *Server) ensureCSRF(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(s.cfg.CSRFCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CSRFCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// verifyCSRF checks the submitted token against the cookie.
func (s *Server) verifyCSRF(r *http.Request, sub forms.Submission) bool {
	cookie, err := r.Cookie(s.cfg.CSRFCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	submitted := sub.Values.Get(csrfField)
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(submitted)) == 1
}
