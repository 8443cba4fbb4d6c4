package routes

import (
	"net/http"

	"stationbook/internal/auth"
	"stationbook/internal/config"
	"stationbook/internal/graph"
	"stationbook/internal/handlers"
	"stationbook/internal/logger"
	mdlwr "stationbook/internal/middleware"
	"stationbook/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// init JWT manager
	jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, "stationbook")
	if err != nil {
		logr.Fatal("failed to init jwt manager", zap.Error(err))
	}

	authSvc := services.NewAuthService(db, jwtMgr, cfg, logr)
	serviceTypeSvc := services.NewServiceTypeService(db)
	stationSvc := services.NewStationService(db, logr.Logger)
	appointmentSvc := services.NewAppointmentService(db, logr.Logger)

	authMW := mdlwr.NewAuthMiddleware(jwtMgr.PublicKey(), authSvc, logr.Logger)

	authHandler := handlers.NewAuthHandler(authSvc, logr, cfg)
	serviceTypeHandler := handlers.NewServiceTypeHandler(serviceTypeSvc, logr.Logger)
	stationHandler := handlers.NewStationHandler(stationSvc, cfg, logr.Logger)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentSvc, logr.Logger)

	graphHandler, err := graph.NewHandler(graph.NewResolver(stationSvc, appointmentSvc, serviceTypeSvc), logr.Logger)
	if err != nil {
		logr.Fatal("failed to build graphql schema", zap.Error(err))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.LoginLocal)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth)
				r.Post("/refresh", authHandler.Refresh)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Everything below requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(authMW.JWTAuth)

			r.Get("/hello", authHandler.Hello)
			r.With(authMW.RequireAdmin).Get("/admin-only", authHandler.AdminOnly)

			r.Route("/service-types", func(r chi.Router) {
				r.Get("/", serviceTypeHandler.List)
				r.Post("/", serviceTypeHandler.Create)
				r.Get("/{id}", serviceTypeHandler.Get)
				r.Put("/{id}", serviceTypeHandler.Update)
				r.Delete("/{id}", serviceTypeHandler.Delete)
			})

			r.Route("/service-stations", func(r chi.Router) {
				r.Get("/", stationHandler.List)
				r.Post("/", stationHandler.Create)
				r.Get("/nearby", stationHandler.Nearby)
				r.Get("/{id}", stationHandler.Get)
				r.Put("/{id}", stationHandler.Update)
				r.Delete("/{id}", stationHandler.Delete)
				r.Post("/{id}/services", stationHandler.UpsertService)
				r.Delete("/{id}/services/{serviceTypeID}", stationHandler.DetachService)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", appointmentHandler.List)
				r.Post("/", appointmentHandler.Create)
				r.Get("/{id}", appointmentHandler.Get)
				r.Put("/{id}", appointmentHandler.Update)
				r.Delete("/{id}", appointmentHandler.Delete)
			})

			r.Post("/graphql", graphHandler.ServeHTTP)
		})
	})

	return r
}
