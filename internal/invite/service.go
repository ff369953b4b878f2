// Package invite provides invite code issuing and redemption for teams.
package invite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/mail"
	teamModel "github.com/taskhive/taskhive/internal/team/model"
	teamRepository "github.com/taskhive/taskhive/internal/team/repository"
)

// Service defines the interface for invite issuing and redemption.
type Service interface {
	// Issue generates an email-bound invite code for a team.
	// Only the team creator may issue invites. The invite mail is sent
	// asynchronously; a delivery failure is logged, not surfaced, because
	// the code is already persisted.
	Issue(ctx context.Context, teamID, issuerID, email string) (*teamModel.InviteResponse, error)

	// Redeem consumes an invite code and adds the redeemer to the owning
	// team. The code must be unexpired, unconsumed and bound to the
	// redeemer's email. Under concurrent redemption exactly one caller
	// wins; the rest observe ErrInviteInvalid.
	Redeem(ctx context.Context, code, redeemerID, redeemerEmail string) (*teamModel.Team, error)
}

type service struct {
	repo   teamRepository.Repository
	db     *gorm.DB
	mailer mail.Mailer
	cfg    config.InviteConfig
	logger *zap.SugaredLogger
}

// New creates a new invite service instance.
func New(
	repo teamRepository.Repository,
	db *gorm.DB,
	mailer mail.Mailer,
	cfg config.InviteConfig,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:   repo,
		db:     db,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
	}
}

// newCode generates an invite code from a cryptographically random source.
func newCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "inv-" + raw[:12]
}

// Issue generates an email-bound invite code for a team.
func (s *service) Issue(ctx context.Context, teamID, issuerID, email string) (*teamModel.InviteResponse, error) {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if team.CreatorID != issuerID {
		return nil, teamModel.ErrNotCreator
	}

	invite := &teamModel.Invite{
		Code:      newCode(),
		TeamID:    teamID,
		Email:     strings.ToLower(email),
		ExpiresAt: time.Now().Add(s.cfg.TTL),
	}

	if err := s.repo.AddInvite(ctx, invite); err != nil {
		return nil, err
	}

	s.logger.Infow("invite issued",
		"team_id", teamID, "email", invite.Email, "expires_at", invite.ExpiresAt)

	// Fire and forget: a slow or failing mail server must not stall the
	// response, the invite is already persisted.
	go s.sendInviteMail(team.Name, invite)

	return &teamModel.InviteResponse{
		Code:      invite.Code,
		Email:     invite.Email,
		ExpiresAt: invite.ExpiresAt,
	}, nil
}

func (s *service) sendInviteMail(teamName string, invite *teamModel.Invite) {
	subject := fmt.Sprintf("You're invited to join %s", teamName)
	body := fmt.Sprintf(
		"You have been invited to join the team %q.\n\nYour invite code: %s\nThe code expires at %s.",
		teamName, invite.Code, invite.ExpiresAt.Format(time.RFC1123))

	if err := s.mailer.Send(context.Background(), invite.Email, subject, body); err != nil {
		s.logger.Warnw("invite mail delivery failed",
			"email", invite.Email, "team_id", invite.TeamID, "error", err)
	}
}

// Redeem consumes an invite code and adds the redeemer to the owning team.
func (s *service) Redeem(ctx context.Context, code, redeemerID, redeemerEmail string) (*teamModel.Team, error) {
	team, invite, err := s.repo.FindByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !invite.Valid(now) {
		return nil, teamModel.ErrInviteInvalid
	}

	// Invites are bound to the recipient's email on both join paths.
	if !strings.EqualFold(invite.Email, redeemerEmail) {
		return nil, teamModel.ErrInviteWrongEmail
	}

	if team.HasMember(redeemerID) {
		return nil, teamModel.ErrAlreadyMember
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := teamRepository.New(tx)

		consumed, txErr := txRepo.ConsumeInvite(ctx, code, now)
		if txErr != nil {
			return txErr
		}
		if !consumed {
			// A concurrent redeemer got here first, or the code expired
			// between the validity check and the update.
			return teamModel.ErrInviteInvalid
		}

		return txRepo.AddMember(ctx, team.ID, redeemerID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("invite redeemed",
		"team_id", team.ID, "user_id", redeemerID, "code", code)

	return s.repo.GetByID(ctx, team.ID)
}
