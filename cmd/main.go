package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"tessera/internal/auth"
	"tessera/internal/config"
	"tessera/internal/domain"
	"tessera/internal/handler"
	"tessera/internal/repository"
	"tessera/internal/service"
	"tessera/internal/service/s3"
	"tessera/internal/session"
)

func connectWithRetry(cfg *config.Config, maxAttempts int, delay time.Duration) (*sqlx.DB, error) {
	dsn := cfg.Database.GetDSN()

	// Primeiro conectamos na base postgres (sempre existe) para garantir que
	// a base da aplicação foi criada
	pgDSN := strings.Replace(dsn, "dbname="+cfg.Database.Name, "dbname=postgres", 1)
	pgDB, err := sqlx.Connect("postgres", pgDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres database: %v", err)
	}
	defer pgDB.Close()

	var exists bool
	err = pgDB.Get(&exists, "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1)", cfg.Database.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	if !exists {
		log.Printf("Database %s does not exist, creating...", cfg.Database.Name)
		_, err = pgDB.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.Database.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	var db *sqlx.DB
	for i := 0; i < maxAttempts; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return db, nil
		}

		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxAttempts, err)
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %v", maxAttempts, err)
}

func runMigrations(cfg *config.Config) error {
	databaseURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	var m *migrate.Migrate
	var err error

	for i := 0; i < 5; i++ {
		m, err = migrate.New("file://migrations", databaseURL)
		if err == nil {
			break
		}
		log.Printf("Failed to create migrate instance (attempt %d/5): %v", i+1, err)
		time.Sleep(time.Second * 5)
	}

	if err != nil {
		return fmt.Errorf("failed to create migrate instance after retries: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		log.Printf("Found dirty database state at version %d, attempting to force version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func main() {
	appConfig, err := config.NewConfig(".app.env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := connectWithRetry(appConfig, 5, time.Second*5)
	if err != nil {
		log.Fatalf("Failed to connect to database after retries: %v", err)
	}
	defer db.Close()

	if err := runMigrations(appConfig); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Armazenamento de conteúdo das versões
	s3Config, err := s3.NewConfig(".s3.env")
	if err != nil {
		log.Fatalf("Failed to load S3 config: %v", err)
	}

	contentStore, err := s3.NewClient(s3Config)
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	// Tokens e sessões de refresh
	authConfig, err := auth.NewConfig(".auth.env")
	if err != nil {
		log.Fatalf("Failed to load auth config: %v", err)
	}

	tokenManager := auth.NewTokenManager(authConfig.Secret, authConfig.AccessTokenTTL)

	sessionStore, err := session.NewRedisStore(authConfig.RedisAddr, authConfig.RedisPassword, authConfig.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	// Repositórios
	userRepo := repository.NewUserRepository(db)
	monografiaRepo := repository.NewMonografiaRepository(db)
	versaoRepo := repository.NewVersaoRepository(db)
	comentarioRepo := repository.NewComentarioRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Serviços
	auditService := service.NewAuditService(auditRepo)
	permissionService := service.NewPermissionService(monografiaRepo)
	authService := service.NewAuthService(userRepo, sessionStore, tokenManager, auditService)
	userService := service.NewUserService(userRepo, auditService)
	monografiaService := service.NewMonografiaService(monografiaRepo, userRepo, permissionService)
	versaoService := service.NewVersaoService(versaoRepo, userRepo, contentStore, permissionService, auditService)
	diffService := service.NewDiffService(versaoRepo, userRepo, contentStore, permissionService)
	comentarioService := service.NewComentarioService(comentarioRepo, versaoRepo, userRepo, permissionService, auditService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(userService, auditService)
	monografiaHandler := handler.NewMonografiaHandler(monografiaService)
	versaoHandler := handler.NewVersaoHandler(versaoService, diffService)
	comentarioHandler := handler.NewComentarioHandler(comentarioService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Rotas públicas
		r.Route("/auth", func(r chi.Router) {
			r.Post("/registro", authHandler.Registro)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// Rotas autenticadas
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager))

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleAdmin))
				r.Get("/usuarios", adminHandler.ListUsuarios)
				r.Get("/usuarios/pendentes", adminHandler.ListPendentes)
				r.Put("/usuarios/{id}/aprovacao", adminHandler.Approve)
				r.Put("/usuarios/{id}/status", adminHandler.UpdateStatus)
				r.Delete("/usuarios/{id}", adminHandler.Delete)
				r.Get("/auditoria", adminHandler.Auditoria)
			})

			r.Route("/monografias", func(r chi.Router) {
				r.Get("/", monografiaHandler.List)
				r.Post("/", monografiaHandler.Create)
				r.Get("/{id}", monografiaHandler.Get)
				r.Put("/{id}", monografiaHandler.Update)
			})

			r.Route("/versoes", func(r chi.Router) {
				r.Get("/monografia/{monografiaId}", versaoHandler.ListByMonografia)
				r.Get("/diff", versaoHandler.Diff)
				r.Get("/{versaoId}", versaoHandler.Get)
				r.Get("/{versaoId}/conteudo", versaoHandler.GetConteudo)
				r.Post("/", versaoHandler.Create)
			})

			r.Route("/comentarios", func(r chi.Router) {
				r.Get("/versao/{versaoId}", comentarioHandler.ListByVersao)
				r.Post("/", comentarioHandler.Create)
				r.Post("/{comentarioId}/responder", comentarioHandler.Responder)
				r.Put("/{comentarioId}/resolver", comentarioHandler.Resolver)
				r.Delete("/{comentarioId}", comentarioHandler.Delete)
			})
		})
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Server.Port),
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server forced to shutdown: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}

	log.Println("Server exited properly")
}
