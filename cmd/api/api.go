package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/ratelimiter"
	"storefront/internal/storage"
)

type application struct {
	config        config
	stores        *catalog.Stores
	storage       *storage.Client
	logger        *zap.SugaredLogger
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	env         string
	frontendURL string
	db          dbConfig
	auth        authConfig
	s3          s3Config
	rateLimiter ratelimiter.Config
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type authConfig struct {
	basic basicConfig
	admin adminConfig
	token tokenConfig
}

type adminConfig struct {
	user         string
	passwordHash string // bcrypt hash of the admin password
}

type basicConfig struct {
	user string
	pass string
}

type tokenConfig struct {
	secret string
	iss    string
}

type s3Config struct {
	endpoint  string
	region    string
	accessKey string
	secretKey string
	bucket    string
	publicURL string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Storefront surface, no auth.
		r.Get("/products", app.listProductsHandler)
		r.Get("/products/{slug}", app.getProductHandler)
		r.Get("/categories", app.listCategoriesHandler)
		r.Get("/categories/{slug}", app.getCategoryHandler)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/token", app.createTokenHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AdminAuthMiddleware)

			r.Get("/stats", app.statsHandler)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", app.adminListCategoriesHandler)
				r.Post("/", app.createCategoryHandler)
				r.Put("/{categoryID}", app.updateCategoryHandler)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", app.adminListProductsHandler)
				r.Post("/", app.createProductHandler)
				r.Put("/{productID}", app.updateProductHandler)
			})

			r.Route("/maintenance", func(r chi.Router) {
				r.Post("/seed", app.seedHandler)
				r.Post("/clear", app.clearHandler)
				r.Post("/create-indexes", app.createIndexesHandler)
				r.Post("/drop-indexes", app.dropIndexesHandler)
			})

			r.Post("/uploads", app.createUploadURLsHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
