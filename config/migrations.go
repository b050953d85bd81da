package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"yep.or.id/classadmin/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250301_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Permission{}, &models.Role{}, &models.User{},
					&models.Orphanage{}, &models.ClassGroup{},
					&models.ClassLog{}, &models.ClassLogPhoto{})
			},
		},
		{
			ID: "20250308_add_events_donations",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Event{}, &models.Donor{}, &models.DonorOTP{},
					&models.Donation{})
			},
		},
		{
			ID: "20250315_add_invoices",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Invoice{}, &models.InvoiceLineItem{},
					&models.InvoiceMiscItem{})
			},
		},
		{
			ID: "20250402_add_banking_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.BankAccount{}, &models.BankTransaction{})
			},
		},
		{
			ID: "20250410_add_ops_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.APIUsage{}, &models.CronJobRun{},
					&models.AppLog{}, &models.TransparencyReport{})
			},
		},
		{
			ID: "20250522_add_verification_columns",
			Migrate: func(tx *gorm.DB) error {
				// AI and GPS/EXIF verification fields landed after the first
				// class logs were created; AutoMigrate adds the columns.
				return tx.AutoMigrate(&models.ClassLog{})
			},
		},
	})

	return m.Migrate()
}
