package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yep.or.id/classadmin/models"
)

// Claims are the custom payload in a staff JWT.
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// DonorClaims are the payload of a donor-portal session token, minted when an
// OTP is redeemed. Kept separate from staff claims so one can never pass for
// the other.
type DonorClaims struct {
	DonorID string `json:"donorId"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// unexported type prevents collisions in context
type ctxKey int

const (
	userClaimsKey ctxKey = iota
	userKey
	permissionsKey
	donorClaimsKey
)

// Auth carries the dependencies the auth middleware needs; handlers receive
// it rather than reaching for package globals.
type Auth struct {
	Secret []byte
	DB     *gorm.DB
}

// GenerateToken creates a signed staff JWT valid for 24 h.
func (a *Auth) GenerateToken(user *models.User) (string, error) {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	claims := Claims{
		UserID: user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
		Role:   roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// GenerateDonorToken creates a donor session JWT valid for 30 days.
func (a *Auth) GenerateDonorToken(donor *models.Donor) (string, error) {
	claims := DonorClaims{
		DonorID: donor.ID.String(),
		Email:   donor.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"donor"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth validates the staff token, loads the user with role and
// permissions, and stashes everything in the request context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			http.Error(w, "missing or malformed Authorization header", http.StatusUnauthorized)
			return
		}

		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
			return a.Secret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			http.Error(w, "invalid token subject", http.StatusUnauthorized)
			return
		}

		var user models.User
		if err := a.DB.Preload("Role.Permissions").First(&user, "id = ?", userID).Error; err != nil {
			http.Error(w, "user not found", http.StatusUnauthorized)
			return
		}
		if !user.IsActive {
			http.Error(w, "account deactivated", http.StatusForbidden)
			return
		}

		perms := []string{}
		if user.Role != nil {
			for _, p := range user.Role.Permissions {
				perms = append(perms, p.Name)
			}
		}

		ctx := context.WithValue(r.Context(), userClaimsKey, claims)
		ctx = context.WithValue(ctx, userKey, &user)
		ctx = context.WithValue(ctx, permissionsKey, perms)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireDonor validates a donor session token and stashes its claims.
func (a *Auth) RequireDonor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			http.Error(w, "missing or malformed Authorization header", http.StatusUnauthorized)
			return
		}

		token, err := jwt.ParseWithClaims(tokenStr, &DonorClaims{}, func(t *jwt.Token) (interface{}, error) {
			return a.Secret, nil
		}, jwt.WithAudience("donor"))
		if err != nil || !token.Valid {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		claims, ok := token.Claims.(*DonorClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), donorClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaims returns the staff claims stashed by RequireAuth, or nil.
func GetClaims(r *http.Request) *Claims {
	claims, _ := r.Context().Value(userClaimsKey).(*Claims)
	return claims
}

// GetUser returns the authenticated user, or nil.
func GetUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

// GetPermissions returns the authenticated user's permission names.
func GetPermissions(r *http.Request) []string {
	perms, _ := r.Context().Value(permissionsKey).([]string)
	return perms
}

// GetDonorClaims returns the donor claims stashed by RequireDonor, or nil.
func GetDonorClaims(r *http.Request) *DonorClaims {
	claims, _ := r.Context().Value(donorClaimsKey).(*DonorClaims)
	return claims
}
