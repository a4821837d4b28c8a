package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookieName = "eduline_flash"

type Flash struct {
	Type    string `json:"type"` // "success" or "error"
	Message string `json:"message"`
}

// SetFlash queues a one-shot message for the next page view.
func SetFlash(w http.ResponseWriter, flashType, message string) {
	payload, err := json.Marshal(Flash{Type: flashType, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flashes moves a pending flash cookie onto the request context and clears
// it, so the message renders exactly once.
func Flashes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(flashCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		payload, err := base64.URLEncoding.DecodeString(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		var flash Flash
		if err := json.Unmarshal(payload, &flash); err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), flashKey, &flash)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
