package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/whimsyboard/whimsy/frontend/internal/flash"
	frontend_mw "github.com/whimsyboard/whimsy/frontend/internal/middleware"
	"github.com/whimsyboard/whimsy/frontend/internal/setup"
	mw "github.com/whimsyboard/whimsy/shared/middleware"
	"github.com/whimsyboard/whimsy/shared/middleware/metrics"
)

const tooManyAttempts = "Too many attempts, please wait a minute."

const contentSecurityPolicy = "default-src 'self'; img-src 'self' https: data:; style-src 'self'; script-src 'self'; form-action 'self'; frame-ancestors 'none'"

func SetupRouter(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	h := deps.Handler
	auth := deps.Auth

	r.Use(chimw.Recoverer)
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(deps.Public.SecureCookies, contentSecurityPolicy))

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticPath))))

	// Everything below renders forms or accepts them.
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit(deps.PageLimiter, mw.GetIP))
		r.Use(frontend_mw.GenerateCSRFToken(deps.CSRF))
		r.Use(frontend_mw.ValidateCSRFToken(deps.CSRF))

		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalSession())
			r.Get("/", h.IndexGetHandler)
			r.Get("/login", h.LoginGetHandler)
			r.Get("/signup", h.SignupGetHandler)
			r.Post("/logout", h.LogoutHandler)

			r.With(authRateLimit(deps, "/login")).Post("/login", h.LoginPostHandler)
			r.With(authRateLimit(deps, "/signup")).Post("/signup", h.SignupPostHandler)
		})

		// Authenticated pages
		r.Group(func(r chi.Router) {
			r.Use(auth.NeedSession())
			r.Post("/", h.IndexPostHandler)
			r.Get("/boards", h.BoardsGetHandler)
			r.Get("/create-board", h.CreateBoardGetHandler)
			r.Post("/create-board", h.CreateBoardPostHandler)

			r.Route("/board/{boardID}", func(r chi.Router) {
				r.Get("/", h.BoardGetHandler)
				r.Get("/edit", h.EditBoardGetHandler)
				r.Post("/edit", h.EditBoardPostHandler)
				r.Post("/delete", h.DeleteBoardPostHandler)
				r.Post("/pins", h.PinCreatePostHandler)

				r.Route("/pins/{pinID}", func(r chi.Router) {
					r.Post("/edit", h.PinEditPostHandler)
					r.Post("/delete", h.PinDeletePostHandler)
					r.Post("/generate", h.PinGeneratePostHandler)
					r.Get("/save", h.SavePinGetHandler)
					r.Post("/save", h.SavePinPostHandler)
				})
			})
		})

		// JSON endpoints for page scripts
		r.Group(func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   deps.Public.AllowedOrigins,
				AllowedMethods:   []string{"POST", "OPTIONS"},
				AllowedHeaders:   []string{"Content-Type", "Accept", frontend_mw.CSRFHeader},
				AllowCredentials: true,
				MaxAge:           300,
			}))
			// preflights are answered by the cors middleware
			r.Options("/upload", noContent)
			r.Options("/generate", noContent)

			r.With(auth.NeedSessionJSON()).Post("/upload", h.UploadPostHandler)
			r.With(auth.NeedSessionJSON()).Post("/generate", h.GeneratePostHandler)
		})
	})

	return r
}

// authRateLimit throttles credential posts per IP and sends the user back to
// the form instead of a bare 429.
func authRateLimit(deps *setup.Dependencies, formPath string) func(http.Handler) http.Handler {
	return mw.RateLimitWithHandler(deps.AuthLimiter, mw.GetIP, func(w http.ResponseWriter, r *http.Request) {
		flash.Redirect(w, r, formPath, flash.Error, tooManyAttempts, deps.Public.SecureCookies)
	})
}

func noContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
