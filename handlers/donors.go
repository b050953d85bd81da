package handlers

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yep.or.id/classadmin/middleware"
	"yep.or.id/classadmin/models"
)

const otpTTL = 10 * time.Minute

type requestOTPReq struct {
	Email string `json:"email"`
}

// RequestOTP emails a 6-digit login code to a known donor. Unknown emails
// get the same 200 response so the endpoint cannot be used to probe which
// addresses have donated.
func (h *Handler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	ok := map[string]string{"message": "if this email has donated, a code has been sent"}

	var donor models.Donor
	err := h.DB.Where("email = ?", email).First(&donor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondJSON(w, http.StatusOK, ok)
		return
	}
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if h.Mailer == nil {
		http.Error(w, "email delivery is not configured", http.StatusServiceUnavailable)
		return
	}

	code, err := generateOTPCode()
	if err != nil {
		http.Error(w, "failed to generate code", http.StatusInternalServerError)
		return
	}
	otp := models.DonorOTP{
		DonorID:   donor.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := h.DB.Create(&otp).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.Mailer.SendOTP(donor.Email, donor.Name, code); err != nil {
		h.Log.Error("otp email failed", zap.Error(err))
		h.appLog("error", "donor", "failed to email login code to "+donor.Email)
		http.Error(w, "failed to send code", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, ok)
}

type verifyOTPReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyOTP exchanges an emailed code for a donor session token. Codes are
// single-use; a successful exchange consumes the row.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Code == "" {
		http.Error(w, "email and code are required", http.StatusBadRequest)
		return
	}

	var donor models.Donor
	if err := h.DB.Where("email = ?", email).First(&donor).Error; err != nil {
		http.Error(w, "invalid code", http.StatusUnauthorized)
		return
	}

	var otp models.DonorOTP
	err := h.DB.Where("donor_id = ? AND code = ?", donor.ID, req.Code).
		Order("created_at desc").First(&otp).Error
	if err != nil || !otp.Usable(time.Now()) {
		http.Error(w, "invalid code", http.StatusUnauthorized)
		return
	}

	if err := h.DB.Model(&otp).Update("consumed", true).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := h.Auth.GenerateDonorToken(&donor)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"donor": donor,
	})
}

// DonorProfile returns the signed-in donor's account and cached totals.
func (h *Handler) DonorProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetDonorClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var donor models.Donor
	if err := h.DB.First(&donor, "id = ?", claims.DonorID).Error; err != nil {
		http.Error(w, "donor not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, donor)
}

// DonorDonations lists the signed-in donor's own donation history.
func (h *Handler) DonorDonations(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetDonorClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var items []models.Donation
	err := h.DB.Where("donor_id = ?", claims.DonorID).
		Order("date desc").Find(&items).Error
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// DonorReports lists published transparency reports for the portal.
func (h *Handler) DonorReports(w http.ResponseWriter, r *http.Request) {
	var items []models.TransparencyReport
	err := h.DB.Where("published = ?", true).
		Order("period_year desc, period_month desc").Find(&items).Error
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
