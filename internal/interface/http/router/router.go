// Package router 组装gin引擎：全局中间件、路由分组和权限
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/library/docs" // 注册swagger文档
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/validator"
)

// NewRouter 创建gin引擎
//
// 路由权限：
//   - 公开：注册、登录、刷新Token、图书查询
//   - 登录：登出、个人信息、借书、还书、借阅历史
//   - 管理员：图书增删改、用户管理
func NewRouter(
	cfg *config.Config,
	auth *middleware.AuthMiddleware,
	bookHandler *handler.BookHandler,
	userHandler *handler.UserHandler,
	borrowHandler *handler.BorrowHandler,
) (*gin.Engine, error) {
	if err := validator.Register(); err != nil {
		return nil, err
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORS),
		middleware.Tracing(),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Server.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := auth.RequireAuth()
	requireAdmin := auth.RequireRole(user.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		authGroup.POST("/register", userHandler.Register)
		authGroup.POST("/login", userHandler.Login)
		authGroup.POST("/refresh", userHandler.RefreshToken)
		authGroup.POST("/logout", requireAuth, userHandler.Logout)

		v1.GET("/profile", requireAuth, userHandler.Profile)

		books := v1.Group("/books")
		books.GET("", bookHandler.ListBooks)
		books.GET("/:id", bookHandler.GetBook)
		books.POST("", requireAuth, requireAdmin, bookHandler.CreateBook)
		books.PUT("/:id", requireAuth, requireAdmin, bookHandler.UpdateBook)
		books.DELETE("/:id", requireAuth, requireAdmin, bookHandler.DeleteBook)

		users := v1.Group("/users", requireAuth, requireAdmin)
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)

		borrows := v1.Group("/borrow", requireAuth)
		borrows.PUT("", borrowHandler.Borrow)
		borrows.POST("/return/:id", borrowHandler.Return)
		borrows.GET("/history", borrowHandler.History)
	}

	return r, nil
}
