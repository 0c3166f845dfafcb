package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bluebin-id/bluebin-api/internal/http/middleware"
)

// NewRouter wires every route. Auth endpoints sit behind the per-IP rate
// limiter; everything else requires a valid token.
func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, environment string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middleware.NewRateLimiter(10, time.Minute)
	authGroup := router.Group("/auth")
	authGroup.Use(limiter.Middleware())
	authGroup.POST("/register", handler.register)
	authGroup.POST("/login", handler.login)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/users", handler.listUsers)
	protected.POST("/users/:id/approve", handler.approveUser)
	protected.POST("/users/:id/reject", handler.rejectUser)
	protected.DELETE("/users/:id", handler.deleteUser)

	protected.POST("/tps", handler.createTPS)
	protected.GET("/tps", handler.listTPS)
	protected.GET("/tps/:id", handler.getTPS)
	protected.PUT("/tps/:id", handler.updateTPS)
	protected.PATCH("/tps/:id/status", handler.updateTPSStatus)
	protected.DELETE("/tps/:id", handler.deleteTPS)

	protected.POST("/requests", handler.createRequest)
	protected.GET("/requests", handler.listRequests)
	protected.POST("/requests/:id/close", handler.closeRequest)

	protected.POST("/schedules/optimize", handler.optimizeSchedule)
	protected.POST("/schedules", handler.createSchedule)
	protected.GET("/schedules", handler.listSchedules)
	protected.GET("/schedules/:id", handler.getSchedule)
	protected.POST("/schedules/:id/approve", handler.approveSchedule)
	protected.POST("/schedules/:id/reject", handler.rejectSchedule)
	protected.POST("/schedules/:id/assign", handler.assignSchedule)
	protected.POST("/schedules/:id/start", handler.startSchedule)
	protected.POST("/schedules/:id/stops/:tpsID/complete", handler.completeStop)
	protected.POST("/schedules/:id/cancel", handler.cancelSchedule)
	protected.DELETE("/schedules/:id", handler.deleteSchedule)
	protected.GET("/schedules/:id/manifest", handler.scheduleManifest)

	protected.POST("/proofs/upload", handler.uploadProofPhoto)
	protected.GET("/proofs", handler.listProofs)
	protected.POST("/proofs/:id/verify", handler.verifyProof)

	protected.POST("/locations", handler.updateLocation)
	protected.GET("/locations", handler.listLocations)
	protected.GET("/ws/locations", handler.watchLocations)

	protected.POST("/reports/collections", handler.exportCollections)

	return router
}
