package router

import (
	"log/slog"
	"net/http"

	"todo-ledger/internal/auth"
	"todo-ledger/internal/config"
	"todo-ledger/internal/handler"
	"todo-ledger/internal/middleware"
	"todo-ledger/internal/todo"
	"todo-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-chi/cors"
)

// Deps are the components the HTTP surface is built on.
type Deps struct {
	Auth  *auth.Service
	Todos *todo.Service
	Log   *slog.Logger
}

func init() {
	// request schemas are closed: unknown JSON fields are a 400
	binding.EnableDecoderDisallowUnknownFields = true
}

// SetupRouter configures the gin engine and all routes.
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Log), gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "route not found")
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Log)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth))

	protected.GET("/me", handler.GetMe)

	todoHandler := handler.NewTodoHandler(deps.Todos, deps.Log)
	protected.GET("/todos", todoHandler.List)
	protected.POST("/todos", todoHandler.Create)
	protected.PUT("/todos/:id", todoHandler.Update)
	protected.DELETE("/todos/:id", todoHandler.Delete)

	exportHandler := handler.NewExportHandler(deps.Todos, deps.Log)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}

// WithCORS wraps h with the configured cross-origin policy.
func WithCORS(cfg config.ServerConfig, h http.Handler) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	})(h)
}
