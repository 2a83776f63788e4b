package routes

import (
	"github.com/shashiranjanraj/nftlisting/app/controllers"
	"github.com/shashiranjanraj/nftlisting/app/services"
	"github.com/shashiranjanraj/nftlisting/config"
	"github.com/shashiranjanraj/nftlisting/pkg/ctx"
	"github.com/shashiranjanraj/nftlisting/pkg/middleware"
	"github.com/shashiranjanraj/nftlisting/pkg/router"
)

// Services are the dependencies the API routes dispatch to.
type Services struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService

	// AuthLimiter throttles /auth/*. Nil builds one from AUTH_RATE_LIMIT.
	AuthLimiter *middleware.IPLimiter
}

func RegisterAPI(r *router.Router, s Services) {
	authController := controllers.NewAuthController(s.Auth)
	nftController := controllers.NewNFTController(s.Catalog)

	limiter := s.AuthLimiter
	if limiter == nil {
		limiter = middleware.NewIPLimiter(config.AuthRateLimit())
	}

	authGroup := r.Group("/auth", middleware.RateLimit(limiter))
	authGroup.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	authGroup.Post("/login", "auth.login", ctx.Wrap(authController.Login))

	r.Get("/uploads/{filename}", "uploads.show", ctx.Wrap(nftController.Image))

	protected := r.Group("", middleware.AuthMiddleware)
	protected.Post("/nfts", "nfts.store", ctx.Wrap(nftController.Store))
	protected.Get("/nfts", "nfts.index", ctx.Wrap(nftController.Index))
	protected.Get("/my-nfts", "nfts.mine", ctx.Wrap(nftController.Mine))
	protected.Get("/nfts/{id}", "nfts.show", ctx.Wrap(nftController.Show))
	protected.Patch("/nfts/{id}", "nfts.update", ctx.Wrap(nftController.Update))
	protected.Delete("/nfts/{id}", "nfts.destroy", ctx.Wrap(nftController.Destroy))
}
