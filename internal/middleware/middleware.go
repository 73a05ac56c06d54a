package middleware

import (
	"errors"
	"net/http"

	"github.com/EmpoweredVote/civic-requests/internal/auth"
	"github.com/EmpoweredVote/civic-requests/internal/utils"
)

// RouteGate applies the route policy before any page handler runs.
// Rejected requests are redirected with 302; an unverifiable token also
// loses its cookie.
func RouteGate(policy *RoutePolicy, cookies auth.CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := policy.Decide(r.URL.Path, auth.TokenFromRequest(r))
			if d.Allow {
				next.ServeHTTP(w, r)
				return
			}
			if d.ClearCookie {
				auth.ClearSessionCookie(w, cookies)
			}
			http.Redirect(w, r, d.RedirectTo, http.StatusFound)
		})
	}
}

// RequireSession authorizes API requests from the session cookie and puts
// the token identity on the request context. With roles given, the token
// must carry one of them.
func RequireSession(authz Authorizer, roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Token not found")
				return
			}

			identity, err := authz.Authorize(token, roles...)
			switch {
			case errors.Is(err, auth.ErrForbidden):
				utils.WriteError(w, http.StatusForbidden, "Access denied")
				return
			case err != nil:
				utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// CORSMiddleware echoes the Origin back only when it is on the allow-list.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}

			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
