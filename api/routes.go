package api

import (
	"fmt"
	"net/http"

	"github.com/garnizeh/outreach/internal/admin"
	"github.com/garnizeh/outreach/internal/auth"
	"github.com/garnizeh/outreach/internal/config"
	"github.com/garnizeh/outreach/internal/db"
	"github.com/garnizeh/outreach/internal/gallery"
	"github.com/garnizeh/outreach/internal/inquiry"
	"github.com/garnizeh/outreach/internal/repository/sqlite"
	"github.com/garnizeh/outreach/internal/storage"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) (*mux.Router, error) {
	// Repository and blob store
	repo := sqlite.New(db, logger)
	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("open upload store: %w", err)
	}

	metrics := NewMetrics()
	issuer := auth.NewTokenIssuer(cfg.TokenSecret(), cfg.TokenDuration)

	// Services
	adminSvc, err := admin.NewService(repo, issuer, cfg.Auth.BcryptCost, logger)
	if err != nil {
		return nil, err
	}
	gallerySvc := gallery.NewService(repo, store, logger, gallery.WithObserver(metrics))
	inquirySvc := inquiry.NewService(repo, logger)

	// Create handlers
	systemHandler := &SystemHandler{ServiceName: cfg.ServiceName}
	adminHandler := NewAdminHandler(adminSvc)
	galleryHandler := NewGalleryHandler(gallerySvc, cfg.MaxUploadSize)
	inquiryHandler, err := NewInquiryHandler(inquirySvc)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// mux skips the chain for unmatched requests. Preflight OPTIONS requests
	// land in the method-not-allowed handler and are answered by CORSMiddleware.
	r.NotFoundHandler = LoggingMiddleware(CORSMiddleware(http.HandlerFunc(notFoundHandler)))
	r.MethodNotAllowedHandler = LoggingMiddleware(CORSMiddleware(http.HandlerFunc(methodNotAllowedHandler)))

	// Open endpoints
	r.HandleFunc("/", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	r.HandleFunc("/api/admin/setup", adminHandler.Setup).Methods("POST")
	r.HandleFunc("/api/admin/login", adminHandler.Login).Methods("POST")
	r.HandleFunc("/api/inquiry", inquiryHandler.Submit).Methods("POST")

	r.HandleFunc("/api/gallery", galleryHandler.List).Methods("GET")
	r.HandleFunc("/api/static/uploads/{filename}", galleryHandler.ServeUpload).Methods("GET", "HEAD")

	// Gallery mutations, optionally behind an admin token
	protect := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.Auth.ProtectGallery {
		requireAdmin := RequireAdmin(issuer)
		protect = func(h http.HandlerFunc) http.Handler { return requireAdmin(h) }
	}
	r.Handle("/api/gallery/upload", protect(galleryHandler.Upload)).Methods("POST")
	r.Handle("/api/gallery/{id:[0-9]+}", protect(galleryHandler.Delete)).Methods("DELETE")

	return r, nil
}
