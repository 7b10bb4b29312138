package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/forkful/recipebox/config"
	"github.com/forkful/recipebox/internal/api"
	"github.com/forkful/recipebox/internal/logger"
	"github.com/forkful/recipebox/internal/middleware"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config        *config.Config
	Log           *zap.Logger
	AuthHandler   *api.AuthHandler
	RecipeHandler *api.RecipeHandler
	Validator     middleware.TokenValidator
	CounterStore  middleware.CounterStore
}

// New builds the gin engine with all middleware and routes. Requests to
// unregistered routes fall through to a 404, so the route table itself is the
// allow-list.
func New(d Deps) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(d.Log))
	r.Use(middleware.PathGuard())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.HTTP.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.CurrentUser(d.Validator))

	var loginLimit, registerLimit gin.HandlerFunc
	if d.Config.RateLimit.Enabled {
		rl := d.Config.RateLimit
		perDay := middleware.NewRateLimiter(d.CounterStore, middleware.RateLimitConfig{
			Window: 24 * time.Hour, Limit: rl.GlobalPerDay, KeyPrefix: "rate_limit:global_day",
		})
		perHour := middleware.NewRateLimiter(d.CounterStore, middleware.RateLimitConfig{
			Window: time.Hour, Limit: rl.GlobalPerHour, KeyPrefix: "rate_limit:global_hour",
		})
		r.Use(perDay.Middleware(), perHour.Middleware())

		loginLimit = middleware.NewRateLimiter(d.CounterStore, middleware.RateLimitConfig{
			Window: time.Minute, Limit: rl.LoginPerMinute, KeyPrefix: "rate_limit:login",
		}).Middleware()
		registerLimit = middleware.NewRateLimiter(d.CounterStore, middleware.RateLimitConfig{
			Window: time.Hour, Limit: rl.RegisterPerHour, KeyPrefix: "rate_limit:register",
		}).Middleware()
	} else {
		noop := func(c *gin.Context) { c.Next() }
		loginLimit, registerLimit = noop, noop
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	// Public routes
	r.GET("/", d.RecipeHandler.Landing)
	r.GET("/login", d.AuthHandler.LoginForm)
	r.POST("/login", loginLimit, d.AuthHandler.Login)
	r.GET("/register", d.AuthHandler.RegisterForm)
	r.POST("/register", registerLimit, d.AuthHandler.Register)
	r.GET("/logout", d.AuthHandler.Logout)
	r.GET("/recipes", d.RecipeHandler.List)
	r.GET("/recipe/:id", d.RecipeHandler.Get)

	// Authenticated routes
	authed := r.Group("", middleware.RequireAuth())
	{
		authed.GET("/home", d.RecipeHandler.Home)
		authed.GET("/recipe/new", d.RecipeHandler.NewForm)
		authed.POST("/recipe/new", d.RecipeHandler.Create)
		authed.GET("/recipe/:id/edit", d.RecipeHandler.EditForm)
		authed.POST("/recipe/:id/edit", d.RecipeHandler.Update)
		authed.POST("/recipe/:id/delete", d.RecipeHandler.Delete)
	}

	return r
}
