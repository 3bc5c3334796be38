// internal/handlers/status_handler.go
package handlers

import (
	"net/http"

	"go_saas_provisioner/internal/middleware"
	"go_saas_provisioner/internal/model"
	"go_saas_provisioner/internal/service"
	"go_saas_provisioner/internal/webutil"
)

type StatusHandler struct {
	checker service.StatusChecker
}

func NewStatusHandler(c service.StatusChecker) *StatusHandler {
	return &StatusHandler{checker: c}
}

// Check はテナントの稼働状態を判定します。
// 判定結果は常に200で返し、問題は status/reason フィールドで表現します。
func (h *StatusHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.StatusCheckRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	result := h.checker.Check(r.Context(), req)

	logger.Info("Status check completed",
		"tenant_id", req.TenantID,
		"check_type", req.CheckType,
		"status", string(result.Status),
	)
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
