package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"nineworlds/internal/models"
	"nineworlds/internal/notify"
	"nineworlds/internal/repository"
)

var (
	ErrNotOwner    = errors.New("action requires the owner role")
	ErrOwnerImmune = errors.New("the owner account cannot be targeted")
	ErrUnknownRole = errors.New("unknown role id")
	ErrBadDuration = errors.New("malformed ban duration")
)

type AdminService interface {
	// BanUser marks the target banned and deactivated. duration is a
	// count of days or months ("7 days", "1 month"); empty means
	// permanent. The actor's role is re-read from the store, never taken
	// from token claims.
	BanUser(ctx context.Context, actorID, targetID, reason, duration string) error
	UnbanUser(ctx context.Context, actorID, targetID string) error
	// ChangeUserRole rejects a non-self change of the owner account;
	// the owner reassigning their own role is the ownership-transfer
	// escape hatch.
	ChangeUserRole(ctx context.Context, actorID, targetID string, roleID int64, reason string) error
	ListUsers(ctx context.Context, actorID string, page, pageSize int) ([]repository.UserWithCounts, int64, error)
	GetUserDetails(ctx context.Context, actorID, targetID string) (*repository.UserWithCounts, error)
	UserStats(ctx context.Context, actorID string) (*repository.UserStats, error)
	SearchUsers(ctx context.Context, actorID, query string, filters repository.UserSearchFilters) ([]repository.UserWithCounts, error)
	ListAdminLogs(ctx context.Context, actorID string, page, pageSize int) ([]models.AdminLog, int64, error)
}

type adminService struct {
	userRepo repository.UserRepository
	logRepo  repository.AdminLogRepository
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewAdminService(userRepo repository.UserRepository, logRepo repository.AdminLogRepository, notifier notify.Notifier, logger *slog.Logger) AdminService {
	return &adminService{
		userRepo: userRepo,
		logRepo:  logRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// requireOwner re-reads the actor's role from the store. Token claims are
// display state only and are never trusted for privileged mutations.
func (s *adminService) requireOwner(ctx context.Context, actorID string) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.RoleID != models.RoleOwnerID {
		return ErrNotOwner
	}
	return nil
}

func (s *adminService) BanUser(ctx context.Context, actorID, targetID, reason, duration string) error {
	if err := s.requireOwner(ctx, actorID); err != nil {
		return err
	}
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.RoleID == models.RoleOwnerID {
		return ErrOwnerImmune
	}

	expiry, err := parseBanDuration(duration)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetBanState(ctx, targetID, true, &reason, expiry, false); err != nil {
		return err
	}

	until := "permanent"
	if expiry != nil {
		until = expiry.Format(time.RFC3339)
	}
	s.dispatch(ctx, notify.Email{
		To:       target.Email,
		Subject:  "Your account has been suspended",
		Template: notify.TemplateAccountBanned,
		Data:     map[string]any{"reason": reason, "until": until},
	})
	s.audit(ctx, actorID, "ban_user", map[string]any{
		"target_id": targetID,
		"reason":    reason,
		"until":     until,
	})
	return nil
}

func (s *adminService) UnbanUser(ctx context.Context, actorID, targetID string) error {
	if err := s.requireOwner(ctx, actorID); err != nil {
		return err
	}
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetBanState(ctx, targetID, false, nil, nil, true); err != nil {
		return err
	}

	s.dispatch(ctx, notify.Email{
		To:       target.Email,
		Subject:  "Your account has been reinstated",
		Template: notify.TemplateAccountUnbanned,
		Data:     map[string]any{"username": target.Username},
	})
	s.audit(ctx, actorID, "unban_user", map[string]any{"target_id": targetID})
	return nil
}

func (s *adminService) ChangeUserRole(ctx context.Context, actorID, targetID string, roleID int64, reason string) error {
	if err := s.requireOwner(ctx, actorID); err != nil {
		return err
	}
	if roleID < models.RoleReaderID || roleID > models.RoleOwnerID {
		return ErrUnknownRole
	}
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.RoleID == models.RoleOwnerID && actorID != targetID {
		return ErrOwnerImmune
	}
	if reason == "" {
		reason = "Role updated by the site owner."
	}

	if err := s.userRepo.SetRole(ctx, targetID, roleID); err != nil {
		return err
	}

	roleName, err := s.userRepo.RoleName(ctx, targetID)
	if err != nil {
		roleName = fmt.Sprintf("role %d", roleID)
	}
	s.dispatch(ctx, notify.Email{
		To:       target.Email,
		Subject:  "Your account role has changed",
		Template: notify.TemplateRoleChanged,
		Data:     map[string]any{"role": roleName, "reason": reason},
	})
	s.audit(ctx, actorID, "change_user_role", map[string]any{
		"target_id": targetID,
		"role_id":   roleID,
		"reason":    reason,
	})
	return nil
}

func (s *adminService) ListUsers(ctx context.Context, actorID string, page, pageSize int) ([]repository.UserWithCounts, int64, error) {
	if err := s.requireOwner(ctx, actorID); err != nil {
		return nil, 0, err
	}
	return s.userRepo.List(ctx, page, pageSize)
}

func (s *adminService) GetUserDetails(ctx context.Context, actorID, targetID string) (*repository.UserWithCounts, error) {
	if err := s.requireOwner(ctx, actorID); err != nil {
		return nil, err
	}
	return s.userRepo.GetWithCounts(ctx, targetID)
}

func (s *adminService) UserStats(ctx context.Context, actorID string) (*repository.UserStats, error) {
	if err := s.requireOwner(ctx, actorID); err != nil {
		return nil, err
	}
	return s.userRepo.Stats(ctx)
}

func (s *adminService) SearchUsers(ctx context.Context, actorID, query string, filters repository.UserSearchFilters) ([]repository.UserWithCounts, error) {
	if err := s.requireOwner(ctx, actorID); err != nil {
		return nil, err
	}
	return s.userRepo.Search(ctx, query, filters)
}

func (s *adminService) ListAdminLogs(ctx context.Context, actorID string, page, pageSize int) ([]models.AdminLog, int64, error) {
	if err := s.requireOwner(ctx, actorID); err != nil {
		return nil, 0, err
	}
	return s.logRepo.List(ctx, page, pageSize)
}

// parseBanDuration turns "7 days" / "1 month" into an absolute expiry.
// Empty input means a permanent ban.
func parseBanDuration(duration string) (*time.Time, error) {
	duration = strings.TrimSpace(strings.ToLower(duration))
	if duration == "" {
		return nil, nil
	}
	fields := strings.Fields(duration)
	if len(fields) != 2 {
		return nil, ErrBadDuration
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return nil, ErrBadDuration
	}
	var expiry time.Time
	switch strings.TrimSuffix(fields[1], "s") {
	case "day":
		expiry = time.Now().AddDate(0, 0, n)
	case "month":
		expiry = time.Now().AddDate(0, n, 0)
	default:
		return nil, ErrBadDuration
	}
	return &expiry, nil
}

// audit appends to the admin log. Failures are logged and swallowed; the
// primary mutation has already committed.
func (s *adminService) audit(ctx context.Context, adminID, action string, details map[string]any) {
	if err := s.logRepo.Append(ctx, adminID, action, details); err != nil {
		s.logger.Error("admin log append failed", "action", action, "error", err)
	}
}

func (s *adminService) dispatch(ctx context.Context, email notify.Email) {
	if err := s.notifier.Send(ctx, email); err != nil {
		s.logger.Error("notification dispatch failed",
			"to", email.To, "template", email.Template, "error", err)
	}
}
