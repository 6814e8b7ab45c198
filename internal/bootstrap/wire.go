package bootstrap

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/baechuer/user-mgmt-service/internal/application/auth"
	"github.com/baechuer/user-mgmt-service/internal/config"
	"github.com/baechuer/user-mgmt-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/user-mgmt-service/internal/infrastructure/email"
	"github.com/baechuer/user-mgmt-service/internal/infrastructure/memory"
	"github.com/baechuer/user-mgmt-service/internal/infrastructure/security"
	"github.com/baechuer/user-mgmt-service/internal/logger"
	http_handlers "github.com/baechuer/user-mgmt-service/internal/transport/http/handlers"
	"github.com/baechuer/user-mgmt-service/internal/transport/http/middleware"
	"github.com/baechuer/user-mgmt-service/internal/transport/http/response"
	"github.com/baechuer/user-mgmt-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string) (DBCloser, error)

	NewSender func(cfg *config.Config) auth.EmailSender

	NewRouter func(router.Deps) (http.Handler, error)
}

type DBCloser interface {
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) storage. An empty DB_ADDR in dev selects the in-memory store
	// so the service can run without a database on a laptop.
	var userRepo auth.UserRepo
	var sqlDB *sql.DB

	if cfg.DBAddr == "" {
		logger.Logger.Warn().Msg("no DB_ADDR; using in-memory user store")
		userRepo = memory.NewUserRepo()
	} else {
		db, err := deps.NewDB(cfg.DBAddr)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		var ok bool
		sqlDB, ok = db.(*sql.DB)
		if !ok {
			runCleanup(cleanupFns)
			return nil, nil, errors.New("bootstrap: NewDB did not return *sql.DB")
		}

		if err := postgres.RunMigrations(sqlDB); err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
		logger.Logger.Info().Msg("database migrations applied")

		userRepo = postgres.NewUserRepo(sqlDB)
	}

	// 2) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 3) email sender
	sender := deps.NewSender(cfg)

	// 4) service
	authSvc := auth.NewService(
		userRepo,
		hasher,
		signer,
		sender,
		auth.Config{
			AccessTokenTTL: cfg.AccessTokenTTL,
			VerifyTokenTTL: cfg.VerifyEmailTokenTTL,
			VerifyBaseURL:  cfg.VerifyEmailBaseURL(),
			EmailTimeout:   cfg.SMTPTimeout,
		},
	)

	authSvc = authSvc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 5) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc, cfg.FrontendBaseURL)
	usersH := http_handlers.NewUsersHandler(authSvc)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(signer, userRepo, response.WriteError)

	// 6) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      healthH,
		Auth:        authH,
		Users:       usersH,
		RequestIDMW: middleware.RequestID,
		AuthMW:      authMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 7) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(addr string) (DBCloser, error) {
			return config.NewDB(addr)
		},
		NewSender: newSender,
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

func newSender(cfg *config.Config) auth.EmailSender {
	if cfg.EmailSender == "smtp" {
		return email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.SMTPTimeout,
			Insecure: cfg.SMTPInsecure,
		}, logger.Logger)
	}
	logger.Logger.Warn().Msg("using fake email sender; verification links are logged only")
	return email.NewFakeSender(logger.Logger)
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
