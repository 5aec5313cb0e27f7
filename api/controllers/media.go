package controllers

import (
	"net/http"
	"time"

	"github.com/temankemah/temankemah-backend/api/responses"
	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

type uploadSigner interface {
	SignUpload(at time.Time) cdn.UploadSignature
}

// MediaSign hands an authenticated client the parameters for a direct CDN
// upload.
func MediaSign(signer uploadSigner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := actorID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, signer.SignUpload(time.Now()))
	}
}
