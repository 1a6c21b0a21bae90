package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Header is the request id header read from and echoed back to clients.
const Header = "X-Request-ID"

const maxIDLength = 128

// Inbound ids are only trusted if they look like ids; anything else is
// replaced to keep log injection out of the correlation chain.
var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Middleware ensures every request carries a request id: it reuses a valid
// inbound id, generates a UUID otherwise, echoes the id on the response, and
// stores it in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !isValid(id) {
			id = uuid.New().String()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

func isValid(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validID.MatchString(id)
}
