package handlers

import (
	"net/http"

	"github.com/sussybocca/FolderExplorer/internal/middleware"
	"github.com/sussybocca/FolderExplorer/internal/pkg"

	"github.com/gin-gonic/gin"
)

// Router wires handlers and middleware onto a gin engine
type Router struct {
	auth           *AuthHandler
	folders        *FolderHandler
	files          *FileHandler
	collaborations *CollaborationHandler
	public         *PublicHandler
	authMW         *middleware.AuthMiddleware
	loggingMW      *middleware.LoggingMiddleware
	corsConfig     *middleware.CORSConfig
	logger         *pkg.Logger
}

// NewRouter creates a new router
func NewRouter(
	auth *AuthHandler,
	folders *FolderHandler,
	files *FileHandler,
	collaborations *CollaborationHandler,
	public *PublicHandler,
	authMW *middleware.AuthMiddleware,
	loggingMW *middleware.LoggingMiddleware,
	corsConfig *middleware.CORSConfig,
	logger *pkg.Logger,
) *Router {
	return &Router{
		auth:           auth,
		folders:        folders,
		files:          files,
		collaborations: collaborations,
		public:         public,
		authMW:         authMW,
		loggingMW:      loggingMW,
		corsConfig:     corsConfig,
		logger:         logger,
	}
}

// Setup registers all routes on the engine
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(r.loggingMW.RequestID())
	engine.Use(middleware.Recovery(r.logger))
	engine.Use(r.loggingMW.LogRequests())
	engine.Use(middleware.CORS(r.corsConfig))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.NoRoute(func(c *gin.Context) {
		pkg.NotFoundResponse(c, "Route not found")
	})

	// Public site serving, no authentication
	engine.GET("/u/:username/:slug/*path", r.public.Serve)

	api := engine.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/pin", r.auth.IssuePin)
			auth.POST("/session", r.auth.RedeemPin)
			auth.DELETE("/session", r.auth.Logout)
			auth.GET("/me", r.authMW.RequireAuth(), r.auth.Me)
		}

		// Public browse listing
		api.GET("/folders/all", r.folders.ListAll)

		folders := api.Group("/folders", r.authMW.RequireAuth())
		{
			folders.GET("", r.folders.ListMine)
			folders.POST("", r.files.UploadFolder)
			folders.GET("/:id/config", r.folders.GetConfig)
			folders.PATCH("/:id/config", r.folders.UpdateConfig)
			folders.GET("/:id/files", r.folders.ListFiles)
			folders.GET("/:id/file", r.files.GetFile)
			folders.PUT("/:id/file", r.files.UpdateFile)
			folders.POST("/:id/pin", r.folders.MintFolderPin)
			folders.POST("/:id/collaborations", r.collaborations.Request)
		}

		collabs := api.Group("/collaborations", r.authMW.RequireAuth())
		{
			collabs.GET("/pending", r.collaborations.ListPending)
			collabs.POST("/:id/respond", r.collaborations.Respond)
		}
	}
}
