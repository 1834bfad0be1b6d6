package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"seoblog/api/internal/cache"
	"seoblog/api/internal/config"
	"seoblog/api/internal/middleware"
	"seoblog/api/internal/repository"
	"seoblog/api/internal/security"
	"seoblog/api/internal/service"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	userService *service.UserService
	tokens      *security.Tokens
	users       middleware.AccountSource
	blogs       middleware.BlogSource
	lister      accountLister
	accounts    *cache.AccountCache
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	mailer service.Mailer,
	verifier service.IdentityVerifier,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	accountCache := cache.NewAccountCache(redisClient, cfg.Redis.AccountCacheTTL)
	tokens := security.NewTokens(
		cfg.Security.JWTSessionSecret,
		cfg.Security.JWTActivationSecret,
		cfg.Security.JWTResetSecret,
		cfg.Security.SessionTTL,
		cfg.Security.ActivationTTL,
		cfg.Security.ResetTTL,
	)
	auth := service.NewAuthService(userRepo, tokens, mailer, verifier, accountCache, cfg.ClientURL, log)
	users := service.NewUserService(userRepo, accountCache, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		userService: users,
		tokens:      tokens,
		users:       userRepo,
		blogs:       blogRepo,
		lister:      userRepo,
		accounts:    accountCache,
		db:          db,
		cache:       redisClient,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/pre-signup", h.PreSignup)
		auth.POST("/signup", h.Signup)
		auth.POST("/signin", h.Signin)
		auth.GET("/signout", h.Signout)
		auth.PUT("/forgot-password", h.ForgotPassword)
		auth.PUT("/reset-password", h.ResetPassword)
		auth.POST("/google-login", h.GoogleLogin)
		auth.GET("/secret", middleware.RequireSignin(h.tokens), h.Secret)

		user := v1.Group("/user")
		user.GET("/:username", h.PublicProfile)

		me := user.Group("")
		me.Use(
			middleware.RequireSignin(h.tokens),
			middleware.Auth(h.users, h.accounts),
		)
		me.GET("/profile", h.Profile)
		me.PUT("/update", h.UpdateProfile)

		admin := v1.Group("/admin")
		admin.Use(
			middleware.RequireSignin(h.tokens),
			middleware.Auth(h.users, h.accounts),
			middleware.RequireAdmin(),
		)
		admin.GET("/users", h.AdminListUsers)
	}
}

// BlogOwnerGuard is the chain the blog routes mount in front of update and
// delete: signed in, account resolved, and the :slug blog owned by the
// requester. Blog routing itself lives outside this service.
func (h HandlerSet) BlogOwnerGuard() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.RequireSignin(h.tokens),
		middleware.Auth(h.users, h.accounts),
		middleware.CanEditBlog(h.blogs),
	}
}
