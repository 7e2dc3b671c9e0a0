package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/auth"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/service"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/health"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/middleware"
)

// RouterDeps holds everything the router needs to register routes.
type RouterDeps struct {
	Auth       *service.AuthService
	Accounts   *service.AccountService
	Shops      *service.ShopService
	Bookmarks  *service.BookmarkService
	Reviews    *service.ReviewService
	Comments   *service.CommentService
	Safety     *service.SafetyService
	AirQuality *service.AirQualityService

	AccountRepo repository.AccountRepository
	JWT         *auth.JWTManager
	Health      *health.Handler
	Logger      *slog.Logger
	CORS        middleware.CORSConfig
	ServiceName string
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Tracing(deps.ServiceName))
	r.Use(middleware.PrometheusMetrics(deps.ServiceName))
	r.Use(middleware.CORS(deps.CORS))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := deps.JWT.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			AccountID: claims.AccountID,
			Email:     claims.Email,
			Role:      claims.Role,
		}, nil
	}

	// Accounts are re-loaded on every authenticated request so role and
	// status changes take effect without waiting for token expiry.
	accountLoader := func(ctx context.Context, id string) (*middleware.Account, error) {
		account, err := deps.AccountRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &middleware.Account{
			ID:     account.ID,
			Email:  account.Email,
			Role:   account.Role,
			Status: account.Status,
		}, nil
	}
	authenticated := middleware.Auth(tokenValidator, accountLoader)

	authHandler := NewAuthHandler(deps.Auth, deps.Logger)
	accountHandler := NewAccountHandler(deps.Accounts, deps.Logger)
	shopHandler := NewShopHandler(deps.Shops, deps.Logger)
	bookmarkHandler := NewBookmarkHandler(deps.Bookmarks, deps.Logger)
	reviewHandler := NewReviewHandler(deps.Reviews, deps.Logger)
	commentHandler := NewCommentHandler(deps.Comments, deps.Logger)
	airQualityHandler := NewAirQualityHandler(deps.AirQuality, deps.Safety, deps.Logger)
	adminHandler := NewAdminHandler(deps.Accounts, deps.Reviews, deps.Comments, deps.Safety, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Auth endpoints (public, rate limited)
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10, deps.Logger))

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/oauth/exchange", authHandler.OAuthExchange)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/logout", authHandler.Logout)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		// Public catalog and air quality endpoints
		r.Get("/shops", shopHandler.List)
		r.Get("/shops/{id}", shopHandler.Get)
		r.Get("/shops/{id}/reviews", reviewHandler.ListByShop)
		r.Get("/shops/{id}/comments", commentHandler.ListByShop)
		r.Get("/shops/{id}/bookmarks/count", bookmarkHandler.Count)
		r.With(middleware.CacheControl(60)).Get("/safety-levels", airQualityHandler.ListSafetyLevels)
		r.With(middleware.CacheControl(60)).Get("/air-quality", airQualityHandler.Measure)

		// Account profile endpoints
		r.Route("/users", func(r chi.Router) {
			r.Use(authenticated)

			r.Get("/me", accountHandler.GetMe)
			r.Put("/me", accountHandler.UpdateMe)
			r.Get("/me/bookmarks", bookmarkHandler.List)
		})

		// Shop management. The store gate is an exact-role check; admins
		// manage shops through their owners, not directly.
		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Use(middleware.RequireRole("store"))

			r.Post("/shops", shopHandler.Create)
			r.Get("/shops/mine", shopHandler.ListMine)
			r.Put("/shops/{id}", shopHandler.Update)
			r.Delete("/shops/{id}", shopHandler.Delete)
		})

		// Bookmarks, reviews, and comments (any authenticated account)
		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Get("/shops/{id}/bookmark", bookmarkHandler.Status)
			r.Post("/shops/{id}/bookmark", bookmarkHandler.Add)
			r.Delete("/shops/{id}/bookmark", bookmarkHandler.Remove)

			r.Post("/shops/{id}/reviews", reviewHandler.Create)
			r.Put("/reviews/{id}", reviewHandler.Update)
			r.Delete("/reviews/{id}", reviewHandler.Delete)
			r.With(middleware.RateLimit(2, 5, deps.Logger)).Post("/reviews/{id}/report", reviewHandler.Report)

			r.Post("/shops/{id}/comments", commentHandler.Create)
			r.Put("/comments/{id}", commentHandler.Update)
			r.Delete("/comments/{id}", commentHandler.Delete)
			r.With(middleware.RateLimit(2, 5, deps.Logger)).Post("/comments/{id}/report", commentHandler.Report)
		})

		// Review replies (shop ownership is checked in the service)
		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Use(middleware.RequireRole("store"))

			r.Post("/reviews/{id}/reply", reviewHandler.Reply)
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticated)
			r.Use(middleware.RequireRole("admin"))

			r.Get("/accounts", adminHandler.ListAccounts)
			r.Put("/accounts/{id}/role", adminHandler.ChangeAccountRole)
			r.Put("/accounts/{id}/status", adminHandler.ChangeAccountStatus)
			r.Delete("/accounts/{id}", adminHandler.DeleteAccount)

			r.Get("/reviews", adminHandler.ListReviews)
			r.Put("/reviews/{id}/status", adminHandler.ModerateReview)
			r.Get("/comments", adminHandler.ListComments)
			r.Put("/comments/{id}/status", adminHandler.ModerateComment)

			r.Post("/safety-levels", adminHandler.CreateSafetyLevel)
			r.Put("/safety-levels/{id}", adminHandler.UpdateSafetyLevel)
			r.Delete("/safety-levels/{id}", adminHandler.DeleteSafetyLevel)
		})
	})

	return r
}
