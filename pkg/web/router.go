package web

import (
	"github.com/gin-gonic/gin"

	"github.com/gazhub/offline-worker/pkg/metrics"
)

func GetRouter(metricsListenAddress string, webHandler Handlers, withMetrics bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), GinLogger())
	if withMetrics {
		router.Use(metrics.PromReqMiddleware())
		go metrics.Server(metricsListenAddress)
	}
	router.Use(XForwardedProto("http"))

	router.GET("/healthz", HealthCheckEndpoint)
	router.GET("/ping", PingEndpoint)
	router.GET("/version", webHandler.VersionEndpoint)

	// Client tab surface
	router.GET("/ws", webHandler.Bridge.ServeWS)
	router.POST("/orders/intake", webHandler.OrderIntake)
	router.GET("/files/:fileid", webHandler.StagedFileEndpoint)

	// Platform triggers
	router.POST("/sync/:tag", webHandler.SyncTrigger)
	router.POST("/periodicsync/:tag", webHandler.PeriodicSyncTrigger)

	pushGroup := router.Group("/push")
	pushGroup.Use(webHandler.PushAuthRequired())
	pushGroup.POST("", webHandler.Push)

	// Everything else is an intercepted storefront fetch
	router.NoRoute(webHandler.Cache.Handle)

	return router
}
