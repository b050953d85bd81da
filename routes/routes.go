package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"yep.or.id/classadmin/handlers"
	"yep.or.id/classadmin/middleware"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(h *handlers.Handler) http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/accept-invite", h.AcceptInvite).Methods("POST")
	r.HandleFunc("/public/reports", h.PublicReports).Methods("GET")
	r.HandleFunc("/public/reports/latest", h.PublicLatestReport).Methods("GET")
	r.HandleFunc("/health", handleHealth).Methods("GET")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.Cfg.UploadDir))),
	)

	// Donor portal sign-in is public; the rest of the portal needs a donor
	// session token.
	r.HandleFunc("/portal/request-otp", h.RequestOTP).Methods("POST")
	r.HandleFunc("/portal/verify-otp", h.VerifyOTP).Methods("POST")

	portal := r.PathPrefix("/portal").Subrouter()
	portal.Use(middleware.SecurityHeaders)
	portal.Use(h.Auth.RequireDonor)
	portal.HandleFunc("/me", h.DonorProfile).Methods("GET")
	portal.HandleFunc("/donations", h.DonorDonations).Methods("GET")
	portal.HandleFunc("/reports", h.DonorReports).Methods("GET")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.SecurityHeaders)
	api.Use(h.Auth.RequireAuth)

	api.HandleFunc("/profile", h.Profile).Methods("GET")

	registerClassRoutes(api, h)
	registerFinanceRoutes(api, h)
	registerAdminRoutes(api, h)

	return r
}

func registerClassRoutes(api *mux.Router, h *handlers.Handler) {
	perm := func(name string, fn http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(name)(fn)
	}

	api.Handle("/class-logs", perm("classlog:read", h.ListClassLogs)).Methods("GET")
	api.Handle("/class-logs", perm("classlog:create", h.CreateClassLog)).Methods("POST")
	api.Handle("/class-logs/{id}", perm("classlog:read", h.GetClassLog)).Methods("GET")
	api.Handle("/class-logs/{id}", perm("classlog:update", h.UpdateClassLog)).Methods("PATCH")
	api.Handle("/class-logs/{id}", perm("classlog:delete", h.DeleteClassLog)).Methods("DELETE")
	api.Handle("/class-logs/{id}/analyze", perm("classlog:analyze", h.AnalyzeClassLog)).Methods("POST")

	api.Handle("/class-groups", perm("classgroup:read", h.ListClassGroups)).Methods("GET")
	api.Handle("/class-groups", perm("classgroup:create", h.CreateClassGroup)).Methods("POST")
	api.Handle("/class-groups/{id}", perm("classgroup:read", h.GetClassGroup)).Methods("GET")
	api.Handle("/class-groups/{id}", perm("classgroup:update", h.UpdateClassGroup)).Methods("PATCH")
	api.Handle("/class-groups/{id}", perm("classgroup:delete", h.DeleteClassGroup)).Methods("DELETE")

	api.Handle("/orphanages", perm("orphanage:read", h.ListOrphanages)).Methods("GET")
	api.Handle("/orphanages", perm("orphanage:create", h.CreateOrphanage)).Methods("POST")
	api.Handle("/orphanages/{id}", perm("orphanage:read", h.GetOrphanage)).Methods("GET")
	api.Handle("/orphanages/{id}", perm("orphanage:update", h.UpdateOrphanage)).Methods("PATCH")
	api.Handle("/orphanages/{id}", perm("orphanage:delete", h.DeleteOrphanage)).Methods("DELETE")
	api.Handle("/orphanages/{id}/geocode", perm("orphanage:update", h.GeocodeOrphanage)).Methods("POST")

	api.Handle("/events", perm("event:read", h.ListEvents)).Methods("GET")
	api.Handle("/events", perm("event:create", h.CreateEvent)).Methods("POST")
	api.Handle("/events/{id}", perm("event:read", h.GetEvent)).Methods("GET")
	api.Handle("/events/{id}", perm("event:update", h.UpdateEvent)).Methods("PATCH")
	api.Handle("/events/{id}", perm("event:delete", h.DeleteEvent)).Methods("DELETE")
}

func registerFinanceRoutes(api *mux.Router, h *handlers.Handler) {
	perm := func(name string, fn http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(name)(fn)
	}

	api.Handle("/donations", perm("donation:read", h.ListDonations)).Methods("GET")
	api.Handle("/donations", perm("donation:create", h.CreateDonation)).Methods("POST")
	api.Handle("/donations/{id}", perm("donation:update", h.UpdateDonation)).Methods("PATCH")
	api.Handle("/donations/{id}", perm("donation:delete", h.DeleteDonation)).Methods("DELETE")
	api.Handle("/donors", perm("donation:read", h.ListDonors)).Methods("GET")

	api.Handle("/invoices", perm("invoice:read", h.ListInvoices)).Methods("GET")
	api.Handle("/invoices", perm("invoice:create", h.CreateInvoice)).Methods("POST")
	api.Handle("/invoices/{id}", perm("invoice:read", h.GetInvoice)).Methods("GET")
	api.Handle("/invoices/{id}", perm("invoice:update", h.PatchInvoice)).Methods("PATCH")
	api.Handle("/invoices/{id}", perm("invoice:delete", h.DeleteInvoice)).Methods("DELETE")
	api.Handle("/invoices/{id}/finalize", perm("invoice:finalize", h.FinalizeInvoice)).Methods("POST")
	api.Handle("/invoices/{id}/unfinalize", perm("invoice:finalize", h.UnfinalizeInvoice)).Methods("POST")
	api.Handle("/invoices/{id}/misc-items", perm("invoice:update", h.AddMiscItem)).Methods("POST")
	api.Handle("/invoices/{id}/pdf", perm("invoice:export", h.ExportInvoicePDF)).Methods("GET")
	api.Handle("/invoices/{id}/xlsx", perm("invoice:export", h.ExportInvoiceXLSX)).Methods("GET")
	api.Handle("/line-items/{id}", perm("invoice:update", h.PatchLineItem)).Methods("PATCH")
	api.Handle("/misc-items/{itemId}", perm("invoice:update", h.DeleteMiscItem)).Methods("DELETE")

	api.Handle("/banking/accounts", perm("banking:read", h.ListBankAccounts)).Methods("GET")
	api.Handle("/banking/transactions", perm("banking:read", h.ListBankTransactions)).Methods("GET")
	api.Handle("/banking/transactions/{id}", perm("banking:reconcile", h.ReconcileTransaction)).Methods("PATCH")
	api.Handle("/banking/sync", perm("banking:sync", h.SyncBanks)).Methods("POST")
	api.Handle("/banking/runway", perm("banking:read", h.Runway)).Methods("GET")
}

func registerAdminRoutes(api *mux.Router, h *handlers.Handler) {
	perm := func(name string, fn http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(name)(fn)
	}

	api.Handle("/users", perm("user:read", h.ListUsers)).Methods("GET")
	api.Handle("/users/invite", perm("user:invite", h.InviteUser)).Methods("POST")
	api.Handle("/users/{id}/role", perm("user:update", h.UpdateUserRole)).Methods("PATCH")
	api.Handle("/users/{id}/deactivate", perm("user:deactivate", h.DeactivateUser)).Methods("POST")

	api.Handle("/reports", perm("report:read", h.ListTransparencyReports)).Methods("GET")
	api.Handle("/reports/generate", perm("report:generate", h.GenerateTransparencyReport)).Methods("POST")
	api.Handle("/reports/{id}/publish", perm("report:publish", h.PublishTransparencyReport)).Methods("POST")
	api.Handle("/reports/{id}/unpublish", perm("report:publish", h.UnpublishTransparencyReport)).Methods("POST")

	api.Handle("/ops/api-usage", perm("ops:read", h.ListAPIUsage)).Methods("GET")
	api.Handle("/ops/api-usage/summary", perm("ops:read", h.APIUsageSummary)).Methods("GET")
	api.Handle("/ops/cron-runs", perm("ops:read", h.ListCronJobRuns)).Methods("GET")
	api.Handle("/ops/logs", perm("ops:read", h.ListAppLogs)).Methods("GET")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
