// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/invite"
	"github.com/taskhive/taskhive/internal/mail"
	notificationRepository "github.com/taskhive/taskhive/internal/notification/repository"
	notificationService "github.com/taskhive/taskhive/internal/notification/service"
	"github.com/taskhive/taskhive/internal/team/handler"
	"github.com/taskhive/taskhive/internal/team/repository"
	"github.com/taskhive/taskhive/internal/team/service"
)

// RegisterRoutes registers team module routes on an authenticated group.
func RegisterRoutes(
	rg *gin.RouterGroup,
	db *gorm.DB,
	mailer mail.Mailer,
	inviteCfg config.InviteConfig,
	logger *zap.SugaredLogger,
) {
	repo := repository.New(db)
	invites := invite.New(repo, db, mailer, inviteCfg, logger)
	notifications := notificationService.New(notificationRepository.New(db), repo, logger)
	svc := service.New(repo, invites, notifications, db, logger)
	h := handler.New(svc, logger)

	rg.POST("/teams", h.Create)
	rg.GET("/teams", h.List)
	rg.GET("/teams/:teamId", h.Get)
	rg.POST("/teams/:teamId/invite", h.CreateInvite)
	rg.POST("/teams/:teamId/join", h.Join)
	rg.POST("/teams/join-by-code", h.JoinByCode)
	rg.DELETE("/teams/:teamId/members/:userId", h.Leave)
	rg.DELETE("/teams/:teamId", h.Delete)
}
