package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"yep.or.id/classadmin/middleware"
	"yep.or.id/classadmin/models"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type loginResp struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

// Login exchanges staff credentials for a JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var u models.User
	if err := h.DB.Preload("Role").Where("email = ?", req.Email).First(&u).Error; err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !u.IsActive {
		http.Error(w, "account deactivated", http.StatusForbidden)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.Auth.GenerateToken(&u)
	if err != nil {
		http.Error(w, "couldn't create token", http.StatusInternalServerError)
		return
	}

	roleName := ""
	if u.Role != nil {
		roleName = u.Role.Name
	}
	respondJSON(w, http.StatusOK, loginResp{
		Token: token,
		User:  userPayload{ID: u.ID, Name: u.Name, Email: u.Email, Role: roleName},
	})
}

// Profile returns the authenticated user with role and permissions.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":        user,
		"permissions": middleware.GetPermissions(r),
	})
}

type acceptInviteReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AcceptInvite lets an invited user set their password using the emailed
// invite token. Public endpoint.
func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req acceptInviteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Token == "" || len(req.Password) < 8 {
		http.Error(w, "token and a password of at least 8 characters are required", http.StatusBadRequest)
		return
	}

	var u models.User
	if err := h.DB.Where("invite_token = ?", req.Token).First(&u).Error; err != nil {
		http.Error(w, "invalid invite token", http.StatusNotFound)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	updates := map[string]interface{}{
		"password_hash": string(hash),
		"invite_token":  nil,
		"is_active":     true,
	}
	if err := h.DB.Model(&u).Updates(updates).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
