// main.go
// Truck Monitor API - role-gated status board for trucks moving through
// gate, yard, parking and departure.

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Mandeep003/nestle-truck-monitor/auth"
	"github.com/Mandeep003/nestle-truck-monitor/config"
	"github.com/Mandeep003/nestle-truck-monitor/engine"
	"github.com/Mandeep003/nestle-truck-monitor/handlers"
	"github.com/Mandeep003/nestle-truck-monitor/middleware"
	"github.com/Mandeep003/nestle-truck-monitor/models"
	"github.com/Mandeep003/nestle-truck-monitor/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()
	cfg.Validate()

	log.Printf("🚛 Starting Truck Monitor API Server")
	log.Printf("📍 Environment: %s", cfg.Server.Environment)
	log.Printf("🔧 Port: %s", cfg.Server.Port)

	// Open the record store
	ctx := context.Background()
	recordStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open record store: %v", err)
	}
	defer recordStore.Close()
	log.Printf("🗄️  Record store ready (backend: %s)", cfg.Store.Backend)

	// Initialize JWT Manager and role resolver
	jwtManager := auth.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.Expiration,
		cfg.JWT.RefreshTokenExpiration,
	)
	resolver := auth.NewRoleResolver(cfg.Roles)
	log.Printf("🔐 Session manager initialized (expiration: %v)", cfg.JWT.Expiration)

	// Initialize workflow engine and handlers
	workflowEngine := engine.New(recordStore)
	sessionHandler := handlers.NewSessionHandler(resolver, jwtManager)
	boardHandler := handlers.NewBoardHandler(workflowEngine)
	exportHandler := handlers.NewExportHandler(workflowEngine)
	log.Printf("✅ Handlers initialized")

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	rateLimiter.CleanupOldLimiters()
	log.Printf("🛡️  Rate limiter initialized (%d requests per %v)", cfg.RateLimit.Requests, cfg.RateLimit.Window)

	// Set up router
	mux := http.NewServeMux()

	// Public routes (no session required)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/api/login", sessionHandler.Login)
	mux.HandleFunc("/api/refresh", sessionHandler.RefreshToken)

	// Board routes: sessions carry a role; requests without one act as Viewer
	// and the engine rejects their mutations.
	withRole := middleware.RoleMiddleware(jwtManager)
	mux.Handle("/api/trucks", withRole(http.HandlerFunc(boardHandler.Trucks)))
	mux.Handle("/api/trucks/transition", withRole(http.HandlerFunc(boardHandler.Transition)))
	mux.Handle("/api/trucks/delete", withRole(http.HandlerFunc(boardHandler.Delete)))
	mux.Handle("/api/trucks/purge-left", withRole(http.HandlerFunc(boardHandler.PurgeLeft)))

	// Export is MasterUser only
	masterOnly := middleware.RequireRole(models.RoleMasterUser)
	mux.Handle("/api/trucks/export", withRole(masterOnly(http.HandlerFunc(exportHandler.Export))))

	// Apply global middleware
	handler := middleware.CORSMiddleware(cfg.CORS.AllowedOrigins)(mux)
	handler = rateLimiter.Middleware()(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// openStore selects the record store backend from configuration.
func openStore(ctx context.Context, cfg *config.Config) (store.RecordStore, error) {
	switch cfg.Store.Backend {
	case "memory":
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

// Health check endpoint
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":%d,"version":"1.0.0"}`, time.Now().Unix())
}
