// Package router registers team task routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	notificationRepository "github.com/taskhive/taskhive/internal/notification/repository"
	notificationService "github.com/taskhive/taskhive/internal/notification/service"
	teamRepository "github.com/taskhive/taskhive/internal/team/repository"
	"github.com/taskhive/taskhive/internal/teamtask/handler"
	"github.com/taskhive/taskhive/internal/teamtask/repository"
	"github.com/taskhive/taskhive/internal/teamtask/service"
)

// RegisterRoutes registers task routes on an authenticated router group.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db)
	teamRepo := teamRepository.New(db)
	notifications := notificationService.New(notificationRepository.New(db), teamRepo, logger)
	svc := service.New(repo, teamRepo, notifications, logger)
	h := handler.New(svc, logger)

	rg.POST("/teams/:teamId/tasks", h.Create)
	rg.GET("/teams/:teamId/tasks", h.List)
	rg.PATCH("/teams/:teamId/tasks/:taskId", h.Update)
	rg.DELETE("/teams/:teamId/tasks/:taskId", h.Delete)
}
