package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joed123/GoogleCloudCourseManager/app"
	"github.com/joed123/GoogleCloudCourseManager/handlers"
	"github.com/joed123/GoogleCloudCourseManager/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var exchanger handlers.CredentialExchanger
	if deps.Exchanger != nil {
		exchanger = deps.Exchanger
	}

	authHandler := handlers.NewAuthHandler(exchanger, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Courses, deps.Logger)
	avatarHandler := handlers.NewAvatarHandler(deps.Users, deps.Avatars, deps.Logger)
	courseHandler := handlers.NewCourseHandler(deps.Courses, deps.Users, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Avatars, deps.Logger)

	auth := deps.AuthMiddleware

	// Liveness and readiness
	r.Get("/", healthHandler.HandleIndex)
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	// User directory; each protected route declares the relationship it
	// demands between caller and target
	r.Route("/users", func(r chi.Router) {
		r.Post("/login", authHandler.HandleLogin)

		r.With(auth.RequireAuth, auth.Authorize(middleware.RequireAdmin)).
			Get("/", userHandler.HandleListUsers)

		r.Route("/{id}", func(r chi.Router) {
			r.With(auth.RequireAuth, auth.Authorize(middleware.RequireSelfOrAdmin)).
				Get("/", userHandler.HandleGetUser)

			r.Route("/avatar", func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Use(auth.Authorize(middleware.RequireSelf))
				r.Post("/", avatarHandler.HandleUpload)
				r.Get("/", avatarHandler.HandleGet)
				r.Delete("/", avatarHandler.HandleDelete)
			})
		})
	})

	// Course catalog; reads are public, creation is admin-only
	r.Route("/courses", func(r chi.Router) {
		r.With(auth.RequireAuth, auth.Authorize(middleware.RequireAdmin)).
			Post("/", courseHandler.HandleCreateCourse)
		r.Get("/", courseHandler.HandleListCourses)
		r.Get("/{id}", courseHandler.HandleGetCourse)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"Error": "Not found"}`))
	})

	return r
}
