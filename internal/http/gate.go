package http

import (
	"net/http"
	"strings"

	"github.com/medhub/clinic-frontdesk/internal/auth"
)

// publicPagePrefixes are the page paths reachable without a session
var publicPagePrefixes = []string{"/login", "/signup"}

// loginPath and landingPath are the two redirect targets of the gate
const (
	loginPath   = "/login"
	landingPath = "/dashboard"
)

func isPublicPage(path string) bool {
	for _, prefix := range publicPagePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// PageGate decides, for every page request, whether to let it through or
// redirect based on session presence:
//
//	no cookie, protected page  -> redirect to the login page
//	no cookie, public page     -> proceed
//	cookie, protected page     -> proceed
//	cookie, public page        -> redirect to the dashboard
//
// This is a presence-only check: the cookie is not validated against the
// session store here. A stale-but-present cookie gets the user to a page
// shell whose API calls then fail with 401 and bounce them back to login.
// The gate is a UX redirect, not a security boundary; the API middleware is.
func PageGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.GetSessionTokenFromCookie(r)
		hasSession := err == nil && token != ""

		public := isPublicPage(r.URL.Path)

		switch {
		case !hasSession && !public:
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
		case hasSession && public:
			http.Redirect(w, r, landingPath, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
