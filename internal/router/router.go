package router

import (
	"regexp"
	"time"

	"invertred/config"
	"invertred/internal/handler"
	"invertred/internal/middleware"
	"invertred/internal/repository"
	"invertred/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var walletRe = regexp.MustCompile(`^[A-Za-z0-9]{26,64}$`)

func Setup(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("wallet", func(fl validator.FieldLevel) bool {
			return walletRe.MatchString(fl.Field().String())
		})
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	authSvc := service.NewAuthService(cfg, userRepo, profileRepo, log)
	referralSvc := service.NewReferralService(userRepo, profileRepo, &cfg.Referral, log)
	adminSvc := service.NewAdminService(userRepo, profileRepo, referralSvc, &cfg.Referral)

	authHandler := handler.NewAuthHandler(authSvc, log)
	meHandler := handler.NewMeHandler(authSvc, referralSvc, profileRepo, &cfg.Referral, log)
	adminHandler := handler.NewAdminHandler(adminSvc, referralSvc, authSvc, log)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/dashboard", meHandler.Dashboard)
			me.GET("/network", meHandler.Network)
			me.POST("/payment", meHandler.ReportPayment)
			me.POST("/wallet", meHandler.SaveWallet)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/members", adminHandler.ListMembers)
			admin.GET("/members/:email", adminHandler.MemberDetail)
			admin.DELETE("/members/:email", adminHandler.RemoveMember)
			admin.POST("/members/:email/approve", adminHandler.Approve)
			admin.POST("/members/:email/pause", adminHandler.Pause)
			admin.POST("/members/:email/reactivate", adminHandler.Reactivate)
			admin.GET("/payouts/due", adminHandler.PayoutsDue)
			admin.GET("/payouts/history", adminHandler.PayoutHistory)
			admin.POST("/payouts/:id", adminHandler.MarkPaid)
			admin.GET("/stats", adminHandler.Stats)
		}
	}

	return r
}
