package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired turns a verified access token into the request's session. It
// must run after jwtauth.Verifier. Tokens of logged-out sessions are refused
// even while unexpired.
func AuthRequired(tokens jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, session.ErrInvalidToken)
				return
			}

			sess, err := tokens.SessionFromClaims(claims)
			if err != nil {
				response.HandleError(w, session.ErrInvalidToken)
				return
			}
			if tokens.IsSessionRevoked(sess.ID) {
				response.HandleError(w, session.ErrSessionNotFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		}
		return http.HandlerFunc(hfn)
	}
}
