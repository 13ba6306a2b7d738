package main

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harrypotter228/TaskManagement/internal/common/config"
	"github.com/harrypotter228/TaskManagement/internal/common/httpmw"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	gateways "github.com/harrypotter228/TaskManagement/internal/gateway/websocket"
	taskhandlers "github.com/harrypotter228/TaskManagement/internal/task/handlers"
)

const serviceName = "taskboard"

func newRouter(cfg *config.Config, ctrls *Controllers, gw *Gateway, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(httpmw.RequestID(), httpmw.OtelTracing(serviceName), httpmw.RequestLogger(log, serviceName))

	gateways.RegisterRoutes(router, gw.Handler)

	taskhandlers.RegisterBoardRoutes(router, ctrls.Boards, log)
	taskhandlers.RegisterTaskRoutes(router, ctrls.Tasks, log)
	taskhandlers.RegisterAttachmentRoutes(router, ctrls.Attachments, log)
	taskhandlers.RegisterFavoriteRoutes(router, ctrls.Favorites, log)

	uploads := uploadsPath(cfg.Attachments)
	router.Static("/"+uploads, filepath.Join(cfg.Attachments.WebRoot, uploads))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"clients": gw.Hub.GetClientCount(),
		})
	})
	return router
}

func uploadsPath(cfg config.AttachmentsConfig) string {
	p := strings.Trim(cfg.UploadsPath, "/")
	if p == "" {
		return config.DefaultUploadsPath
	}
	return p
}
