package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mindtrack-backend/internal/models"
	"mindtrack-backend/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	tokens, err := h.adminService.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// UpdateUserStatus activates or deactivates a user account. The target is
// addressed by email; `activate=false` turns the account off.
func (h *AdminHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	activate := true
	if v := r.URL.Query().Get("activate"); v == "false" {
		activate = false
	}

	var req models.UpdateUserStatusRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.adminService.SetUserStatus(r.Context(), email, activate, req.Reason); err != nil {
		handleServiceError(w, r, err)
		return
	}

	msg := "User activated successfully"
	if !activate {
		msg = "User deactivated successfully"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
