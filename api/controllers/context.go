package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/temankemah/temankemah-backend/api/middleware"
	"github.com/temankemah/temankemah-backend/pkg/enums"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
)

// actorID resolves the authenticated user id from the request context.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user identity")
	}
	return id, nil
}

// viewerID resolves the optional identity seeded by the read gate. Anonymous
// viewers get uuid.Nil.
func viewerID(r *http.Request) uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func isAdmin(r *http.Request) bool {
	return middleware.RoleFromContext(r.Context()) == enums.UserRoleAdmin.String()
}
