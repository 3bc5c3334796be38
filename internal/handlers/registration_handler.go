// internal/handlers/registration_handler.go
package handlers

import (
	"errors"
	"net/http"

	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/service"
	"go_saas_provisioner/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type RegistrationHandler struct {
	service service.RegistrationService
}

func NewRegistrationHandler(s service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: s}
}

// Register は新規テナントのサインアップを受け付けます
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.RegisterRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed for registration", "errors", validationErrors.Error())
			appErr := webutil.NewValidationErrorResponse(validationErrors)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation for registration", "error", err)
			webutil.HandleError(w, logger, err)
		}
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		logger.Error("Registration process failed in service", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Registration successful", "tenant_id", resp.TenantID)
	webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
}
