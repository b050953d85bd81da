package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"yep.or.id/classadmin/middleware"
	"yep.or.id/classadmin/models"
)

// ListUsers returns all staff accounts with their roles.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Preload("Role").Order("created_at").Find(&users).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

type inviteUserReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// InviteUser creates a deactivated account with an invite token. The token
// would normally be emailed; it is also returned so the admin can share a
// link directly.
func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req inviteUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Role == "" {
		http.Error(w, "name, email and role are required", http.StatusBadRequest)
		return
	}

	var role models.Role
	if err := h.DB.Where("name = ?", req.Role).First(&role).Error; err != nil {
		http.Error(w, "unknown role "+req.Role, http.StatusBadRequest)
		return
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		http.Error(w, "token generation failed", http.StatusInternalServerError)
		return
	}
	token := hex.EncodeToString(buf)
	now := time.Now()

	u := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: "!invited", // unusable until the invite is accepted
		RoleID:       &role.ID,
		IsActive:     false,
		InviteToken:  &token,
		InvitedAt:    &now,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusConflict)
		return
	}

	h.appLog("info", "users", "invited "+req.Email+" as "+req.Role)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":        u,
		"inviteToken": token,
	})
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateUserRole assigns a different role to a user.
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateRoleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	var role models.Role
	if err := h.DB.Where("name = ?", req.Role).First(&role).Error; err != nil {
		http.Error(w, "unknown role "+req.Role, http.StatusBadRequest)
		return
	}

	if err := h.DB.Model(&u).Update("role_id", role.ID).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// DeactivateUser disables a login without deleting history. Self-lockout is
// rejected.
func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	current := middleware.GetUser(r)
	if current != nil && current.ID.String() == id {
		http.Error(w, "cannot deactivate your own account", http.StatusBadRequest)
		return
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	result := h.DB.Model(&models.User{}).Where("id = ?", uid).Update("is_active", false)
	if result.Error != nil {
		http.Error(w, "db error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	h.appLog("info", "users", "deactivated user "+id)
	w.WriteHeader(http.StatusNoContent)
}
