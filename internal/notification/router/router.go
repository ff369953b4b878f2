// Package router registers notification routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/notification/handler"
	"github.com/taskhive/taskhive/internal/notification/repository"
	"github.com/taskhive/taskhive/internal/notification/service"
	teamRepository "github.com/taskhive/taskhive/internal/team/repository"
)

// RegisterRoutes registers notification routes on an authenticated group.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, logger *zap.SugaredLogger) {
	svc := service.New(repository.New(db), teamRepository.New(db), logger)
	h := handler.New(svc, logger)

	rg.GET("/teams/:teamId/notifications", h.List)
}
