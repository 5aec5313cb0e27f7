package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/temankemah/temankemah-backend/api/responses"
	pkgAuth "github.com/temankemah/temankemah-backend/pkg/auth"
	"github.com/temankemah/temankemah-backend/pkg/config"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

// ReadGate guards read endpoints behind either a valid bearer token or the
// shared Basic credentials handed to trusted frontends. A valid bearer token
// additionally seeds the caller identity so handlers can personalize reads.
func ReadGate(jwtCfg config.JWTConfig, gateCfg config.ReadGateConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				claims, err := pkgAuth.ParseAccessToken(jwtCfg, token)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}
				ctx := seedIdentity(r.Context(), logg, claims)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok || !basicMatch(username, password, gateCfg) {
				w.Header().Set("WWW-Authenticate", `Basic realm="temankemah"`)
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func basicMatch(username, password string, cfg config.ReadGateConfig) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
	return userOK && passOK
}
