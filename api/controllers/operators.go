package controllers

import (
	"net/http"

	"github.com/anpos/pos-backend/api/responses"
	"github.com/anpos/pos-backend/api/validators"
	"github.com/anpos/pos-backend/internal/operators"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/anpos/pos-backend/pkg/logger"
)

// OperatorLogin exchanges credentials for a bearer token.
func OperatorLogin(svc operators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "operator service unavailable"))
			return
		}
		var req operators.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// OperatorRegister creates another operator. Mounted behind the admin role.
func OperatorRegister(svc operators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "operator service unavailable"))
			return
		}
		var req operators.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		op, err := svc.Register(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, operators.FromModel(op))
	}
}
