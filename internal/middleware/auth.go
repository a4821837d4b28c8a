package middleware

import (
	"net/http"

	"github.com/mkravets/eduline/internal/models"
)

// RequireRole gates a route group to one role. Anonymous requests are sent
// to the login page; a signed-in user of the wrong role is bounced to their
// own dashboard.
func RequireRole(role models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				SetFlash(w, "error", "Please sign in to continue")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if user.Role != role {
				SetFlash(w, "error", "You are not allowed to access that page")
				http.Redirect(w, r, DashboardPath(user), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func DashboardPath(user *models.User) string {
	if user == nil {
		return "/login"
	}
	if user.IsInstructor() {
		return "/instructor/dashboard"
	}
	return "/student/dashboard"
}
