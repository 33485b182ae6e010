package http

import (
	"encoding/json"
	"net/http"

	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	GetPayrollConfig(w http.ResponseWriter, r *http.Request)
	GetExpenseCategories(w http.ResponseWriter, r *http.Request)
	GetEmployeeConfig(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

func (h *settingsHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated successfully", result)
}

func (h *settingsHandlerImpl) GetPayrollConfig(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetPayrollConfig(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) GetExpenseCategories(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.settingsService.GetExpenseCategories(r.Context()))
}

func (h *settingsHandlerImpl) GetEmployeeConfig(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.settingsService.GetEmployeeConfig(r.Context()))
}
