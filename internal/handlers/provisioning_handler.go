// internal/handlers/provisioning_handler.go
package handlers

import (
	"net/http"

	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/service"
	"go_saas_provisioner/internal/webutil"
)

type ProvisioningHandler struct {
	service service.ProvisioningService
}

func NewProvisioningHandler(s service.ProvisioningService) *ProvisioningHandler {
	return &ProvisioningHandler{service: s}
}

// Execute はプロビジョニングの1ステップを実行します。
// リクエストの action で実行するステップを指定します。
func (h *ProvisioningHandler) Execute(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.ProvisionRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	result, err := h.service.Execute(r.Context(), req)
	if err != nil {
		logger.Error("Provisioning step failed", "action", req.Action, "tenant_id", req.TenantID, "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Provisioning step completed", "action", req.Action, "tenant_id", req.TenantID)
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
