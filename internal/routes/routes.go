package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/handlers"
	"CREATESHARE_BACK-END/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth           *handlers.AuthHandler
	ForgotPassword *handlers.ForgotPasswordHandler
	Google         *handlers.GoogleAuthHandler
	Users          *handlers.UserHandler
	Follows        *handlers.FollowHandler
	Posts          *handlers.PostHandler
	Health         *handlers.HealthHandler
}

// SetupRoutes configures all application routes. Every route declares its
// own gate; nothing relies on registration order. limiter may be nil.
func SetupRoutes(h Handlers, gate *middleware.Gate, limiter *middleware.RateLimiter, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	// Health check routes
	r.Get("/healthz", h.Health.HealthCheck)
	r.Get("/livez", h.Health.LivenessCheck)
	r.Get("/readyz", h.Health.ReadinessCheck)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	limited := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		limited = limiter.Middleware
	}

	r.Route("/api/v1/users", func(r chi.Router) {
		// Credentials
		r.With(limited).Post("/signup", h.Auth.Signup)
		r.With(limited).Post("/login", h.Auth.Login)
		r.Get("/logout", h.Auth.Logout)
		r.With(gate.OptionalAuth).Get("/loggedin", h.Auth.LoggedIn)
		r.With(limited).Post("/forgotpassword", h.ForgotPassword.ForgotPassword)
		r.Patch("/resetpassword/{token}", h.ForgotPassword.ResetPassword)

		// Google sign-in
		r.Get("/google/login", h.Google.GoogleLogin)
		r.Get("/google/callback", h.Google.GoogleCallback)

		// Public reads
		r.Get("/", h.Users.ListUsers)
		r.Get("/{id}", h.Users.GetUser)
		r.Get("/{id}/followers", h.Follows.UserFollowers)
		r.Get("/{id}/following", h.Follows.UserFollowing)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(gate.RequireAuth)

			r.Get("/me", h.Users.GetMe)
			r.Patch("/me/update", h.Users.UpdateMe)
			r.Patch("/me/updatebio", h.Users.UpdateBio)
			r.Patch("/me/photo", h.Users.UpdatePhoto)
			r.Patch("/me/updatepassword", h.Auth.ChangePassword)
			r.Get("/me/followers", h.Follows.MyFollowers)
			r.Get("/me/following", h.Follows.MyFollowing)

			r.Post("/follow", h.Follows.Follow)
			r.Delete("/follow/{id}", h.Follows.Unfollow)
			r.Get("/isfollowed/{id}", h.Follows.IsFollowing)
		})
	})

	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Get("/", h.Posts.ListAll)
		r.Get("/user/{id}", h.Posts.ListByUser)

		r.Group(func(r chi.Router) {
			r.Use(gate.RequireAuth)

			r.Post("/", h.Posts.Create)
			r.Get("/me", h.Posts.ListMine)
			r.Get("/feed", h.Posts.Feed)
			r.Delete("/{id}", h.Posts.Delete)
		})

		r.Get("/{id}", h.Posts.Get)
	})

	// Root route
	r.Get("/", rootHandler)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("createANDshare backend is running."))
}
