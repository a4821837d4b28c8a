package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkravets/eduline/internal/config"
	"github.com/mkravets/eduline/internal/service"
)

// SignToken binds a session token to this deployment's secret. The cookie
// carries "token.signature"; a cookie whose signature does not verify is
// dropped before any database lookup.
func SignToken(secret, token string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return token + "." + hex.EncodeToString(mac.Sum(nil))
}

func VerifyToken(secret, value string) (string, bool) {
	i := strings.LastIndex(value, ".")
	if i <= 0 {
		return "", false
	}
	token, sig := value[:i], value[i+1:]

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return token, true
}

func WriteSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    SignToken(cfg.Secret, token),
		Path:     "/",
		MaxAge:   int(cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ExpireSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Sessions resolves the session cookie into the current user and puts it on
// the request context. Invalid, expired or forged cookies are cleared; the
// request continues anonymously.
func Sessions(auth service.AuthService, cfg config.SessionConfig, secure bool, log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := VerifyToken(cfg.Secret, cookie.Value)
			if !ok {
				ExpireSessionCookie(w, cfg, secure)
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.UserFromSession(r.Context(), token)
			if err != nil {
				ExpireSessionCookie(w, cfg, secure)
				log.Debug().Err(err).Msg("Session rejected")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, token)))
		}
		return http.HandlerFunc(fn)
	}
}
