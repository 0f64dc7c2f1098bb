package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/prasetyowira/shortlink/api/response"
	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
)

// BasicAuth guards a route with HTTP basic authentication. Rejections carry
// the JSON error envelope and a WWW-Authenticate challenge for realm.
func BasicAuth(realm string, creds map[string]string, log *logger.Logger) func(http.Handler) http.Handler {
	challenge := fmt.Sprintf(`Basic realm="%s"`, realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || !validCredentials(creds, user, pass) {
				log.Warn(r.Context(), "Unauthorized request", logger.LoggerInfo{
					ContextFunction: constant.CtxAuth,
					Error: &logger.CustomError{
						Code:    constant.ErrCodeAPIUnauthorized,
						Message: constant.MsgUnauthorized,
						Type:    constant.ErrTypeAPI,
					},
					Data: map[string]interface{}{
						constant.DataMethod: r.Method,
						constant.DataPath:   r.URL.Path,
					},
				})
				w.Header().Set("WWW-Authenticate", challenge)
				response.WriteError(w, constant.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validCredentials(creds map[string]string, user, pass string) bool {
	want, ok := creds[user]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pass), []byte(want)) == 1
}
