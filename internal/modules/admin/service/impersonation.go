package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/model"
	userRepo "github.com/careerfindr/careerfindr-api/internal/modules/user/repository"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// impersonationTTL bounds how long a forgotten session lingers in Redis.
const impersonationTTL = 4 * time.Hour

func impersonationKey(adminID uuid.UUID) string {
	return fmt.Sprintf("impersonation:%s", adminID.String())
}

// ImpersonationStatus describes the admin's current view-as session.
type ImpersonationStatus struct {
	Active   bool       `json:"active"`
	TargetID *uuid.UUID `json:"target_id,omitempty"`
}

// ImpersonationService tracks which user an admin is currently viewing the
// portal as. The session only affects presentation; authorization decisions
// elsewhere always use the real principal.
type ImpersonationService interface {
	Start(ctx context.Context, actorID uuid.UUID, actorRole string, targetID uuid.UUID) error
	Stop(ctx context.Context, actorID uuid.UUID) error
	Status(ctx context.Context, actorID uuid.UUID) (ImpersonationStatus, error)
}

type impersonationService struct {
	rdb   *redis.Client
	users userRepo.UserRepository
}

func NewImpersonationService(rdb *redis.Client, users userRepo.UserRepository) ImpersonationService {
	return &impersonationService{
		rdb:   rdb,
		users: users,
	}
}

// Start begins viewing as targetID. A non-admin caller is silently ignored;
// the attempt is logged and nothing is stored.
func (s *impersonationService) Start(ctx context.Context, actorID uuid.UUID, actorRole string, targetID uuid.UUID) error {
	if actorRole != model.RoleAdmin {
		log.Printf("ignored impersonation attempt by non-admin %s", actorID)
		return nil
	}
	if s.rdb == nil {
		return apperror.ErrInternal
	}

	if _, err := s.users.FindByID(ctx, targetID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	return s.rdb.Set(ctx, impersonationKey(actorID), targetID.String(), impersonationTTL).Err()
}

// Stop ends the session. Stopping when none is active is not an error.
func (s *impersonationService) Stop(ctx context.Context, actorID uuid.UUID) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, impersonationKey(actorID)).Err()
}

func (s *impersonationService) Status(ctx context.Context, actorID uuid.UUID) (ImpersonationStatus, error) {
	if s.rdb == nil {
		return ImpersonationStatus{}, nil
	}

	val, err := s.rdb.Get(ctx, impersonationKey(actorID)).Result()
	if errors.Is(err, redis.Nil) {
		return ImpersonationStatus{}, nil
	}
	if err != nil {
		return ImpersonationStatus{}, err
	}

	targetID, err := uuid.Parse(val)
	if err != nil {
		// Stale or corrupt entry; drop it.
		_ = s.rdb.Del(ctx, impersonationKey(actorID)).Err()
		return ImpersonationStatus{}, nil
	}

	return ImpersonationStatus{Active: true, TargetID: &targetID}, nil
}
