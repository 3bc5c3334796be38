// internal/handlers/tenant_handler.go
package handlers

import (
	"net/http"

	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/service"
	"go_saas_provisioner/internal/webutil"
)

type TenantHandler struct {
	service service.TenantInfoService
}

func NewTenantHandler(s service.TenantInfoService) *TenantHandler {
	return &TenantHandler{service: s}
}

// GetMe はアクセストークンの所有者が属するテナントの情報を返します
func (h *TenantHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	token, err := middleware.BearerToken(r)
	if err != nil {
		logger.Warn("Missing or malformed Authorization header")
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	info, err := h.service.GetTenantInfo(r.Context(), token)
	if err != nil {
		logger.Error("Error getting tenant info in service", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, info, logger)
}
