package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emekaorji/cartify-backend/api/middleware"
	"github.com/emekaorji/cartify-backend/internal/orders"
	"github.com/emekaorji/cartify-backend/pkg/enums"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
)

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

func actorFromRequest(r *http.Request) (orders.Actor, error) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		return orders.Actor{}, err
	}
	return orders.Actor{
		UserID: userID,
		Role:   enums.UserRole(middleware.RoleFromContext(r.Context())),
	}, nil
}

func pathUUID(r *http.Request, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+label)
	}
	return id, nil
}
