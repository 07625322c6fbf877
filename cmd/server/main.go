package main

import (
	"fmt"
	"log"

	"vninvoice/internal/config"
	"vninvoice/internal/docstore"
	"vninvoice/internal/domain"
	"vninvoice/internal/handler"
	"vninvoice/internal/ledger"
	"vninvoice/internal/provider"
	"vninvoice/internal/provider/megabiz"
	"vninvoice/internal/provider/misa"
	"vninvoice/internal/repository/postgres"
	"vninvoice/internal/router"
	"vninvoice/internal/service"
	s3storage "vninvoice/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	store := docstore.New(s3Client, cfg.S3.Bucket)

	// Wire the provider registry
	deps := provider.Deps{
		Transport: provider.NewClient(),
		Ledger:    ledger.NewSync(invoiceRepo),
		Store:     store,
	}
	registry := provider.NewRegistry(deps)
	registry.Register(domain.ProviderMegabiz, megabiz.New)
	registry.Register(domain.ProviderMisa, misa.New)

	// Initialize services
	invoiceSvc := service.NewInvoiceService(cfg.Invoice, cfg.S3.PresignExpiry, registry, invoiceRepo, store)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	credentialH := handler.NewCredentialHandler(invoiceSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(invoiceH, credentialH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
