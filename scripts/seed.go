package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/Mandeep003/nestle-truck-monitor/config"
	"github.com/Mandeep003/nestle-truck-monitor/engine"
	"github.com/Mandeep003/nestle-truck-monitor/models"
	"github.com/Mandeep003/nestle-truck-monitor/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()
	cfg.Validate()

	ctx := context.Background()
	recordStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer recordStore.Close()

	log.Println("🌱 Starting board seeding...")

	if err := seedTrucks(ctx, engine.New(recordStore)); err != nil {
		log.Fatalf("Failed to seed trucks: %v", err)
	}

	log.Println("✅ Board seeding completed successfully!")
}

func openStore(ctx context.Context, cfg *config.Config) (store.RecordStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		log.Println("⚠️  Seeding the memory backend only affects this process")
		return store.NewMemoryStore(), nil
	case "file":
		return store.NewFileStore(cfg.Store.FilePath)
	case "firestore":
		return store.NewFirestoreStore(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath)
	case "postgres":
		return store.NewPostgresStore(cfg.Store.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
}

func seedTrucks(ctx context.Context, workflowEngine *engine.Engine) error {
	entries := []models.EntryFields{
		{
			Date:           "2025-08-29",
			TruckNumber:    "TN01AB1234",
			DriverPhone:    "+91-98100-11223",
			EntryTime:      "08:15",
			VendorMaterial: "Coffee / Green beans",
		},
		{
			Date:           "2025-08-29",
			TruckNumber:    "MH12XY5678",
			DriverPhone:    "+91-98200-44556",
			EntryTime:      "09:40",
			VendorMaterial: "Dairy / Milk powder",
			Status:         string(models.StatusReadyToLeave),
		},
		{
			Date:           "2025-08-30",
			TruckNumber:    "KA05CD9012",
			DriverPhone:    "+91-97300-77889",
			EntryTime:      "07:05",
			VendorMaterial: "Packaging / Cartons",
			Status:         string(models.StatusLeft),
		},
		{
			Date:           "2025-08-30",
			TruckNumber:    "DL08EF3456",
			DriverPhone:    "+91-96400-22334",
			EntryTime:      "11:20",
			VendorMaterial: "Cereals / Wheat flour",
		},
	}

	for _, entry := range entries {
		// Fresh arrivals go in as Gate so they land in SCM's review queue;
		// mid-flow entries need MasterUser, the only role that may pick a
		// status at creation.
		role := models.RoleGate
		if entry.Status != "" {
			role = models.RoleMasterUser
		}
		id, err := workflowEngine.Register(ctx, role, entry)
		if err != nil {
			return fmt.Errorf("failed to register truck %s: %w", entry.TruckNumber, err)
		}
		log.Printf("  ✓ Registered truck: %s (record %s)", entry.TruckNumber, id)
	}

	return nil
}
