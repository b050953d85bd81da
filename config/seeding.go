package config

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yep.or.id/classadmin/models"
)

// permission catalog: resource -> actions
var permissionCatalog = map[string][]string{
	"classlog":   {"read", "create", "update", "delete", "analyze"},
	"classgroup": {"read", "create", "update", "delete"},
	"orphanage":  {"read", "create", "update", "delete"},
	"event":      {"read", "create", "update", "delete"},
	"donation":   {"read", "create", "update", "delete"},
	"invoice":    {"read", "create", "update", "delete", "finalize", "export"},
	"user":       {"read", "invite", "update", "deactivate"},
	"banking":    {"read", "sync", "reconcile"},
	"report":     {"read", "generate", "publish"},
	"ops":        {"read"},
}

var rolePermissions = map[string][]string{
	"admin":   {"*"},
	"manager": {"classlog:*", "classgroup:*", "orphanage:*", "event:*", "donation:*", "invoice:*", "report:*", "banking:read", "ops:read"},
	"teacher": {"classlog:read", "classlog:create", "classlog:update", "classgroup:read", "orphanage:read", "event:read"},
	"viewer":  {"*:read"},
}

// RunAllSeeding seeds permissions, roles and the initial admin account.
// Every step is idempotent; existing rows are left alone.
func RunAllSeeding(db *gorm.DB) error {
	log.Println("[1/3] Seeding permissions...")
	if err := seedPermissions(db); err != nil {
		return err
	}

	log.Println("[2/3] Seeding roles...")
	if err := seedRoles(db); err != nil {
		return err
	}

	log.Println("[3/3] Seeding initial admin...")
	return seedAdmin(db)
}

func seedPermissions(db *gorm.DB) error {
	for resource, actions := range permissionCatalog {
		for _, action := range actions {
			name := resource + ":" + action
			var existing models.Permission
			err := db.Where("name = ?", name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			perm := models.Permission{Name: name, Resource: resource, Action: action}
			if err := db.Create(&perm).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedRoles(db *gorm.DB) error {
	for roleName, permNames := range rolePermissions {
		var role models.Role
		err := db.Where("name = ?", roleName).First(&role).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		role = models.Role{Name: roleName, IsActive: true}
		if err := db.Create(&role).Error; err != nil {
			return err
		}

		// Wildcard grants are stored as synthetic permissions so the
		// matcher can expand them without per-permission rows.
		for _, name := range permNames {
			var perm models.Permission
			err := db.Where("name = ?", name).First(&perm).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				perm = models.Permission{Name: name, Resource: "*", Action: "*"}
				if err := db.Create(&perm).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			if err := db.Model(&role).Association("Permissions").Append(&perm); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedAdmin creates the bootstrap admin from ADMIN_EMAIL / ADMIN_PASSWORD.
// Skipped silently when the env vars are absent or the user already exists.
func seedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var adminRole models.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       &adminRole.ID,
		IsActive:     true,
	}
	return db.Create(&admin).Error
}
