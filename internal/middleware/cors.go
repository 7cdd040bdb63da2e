package middleware

import "net/http"

// CORS allows every origin, matching the frontend's local development setup.
// Preflight requests that reach a route registered for OPTIONS are answered there;
// all other preflights are short-circuited with 204.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" && !routedPreflight(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routedPreflight(r *http.Request) bool {
	switch r.URL.Path {
	case "/api/analyze", "/analyze", "/api/respond", "/respond":
		return true
	}
	return false
}
