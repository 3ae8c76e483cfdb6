package service

import (
	"context"
	"fmt"
	"log"
	"time"

	jobRepo "github.com/careerfindr/careerfindr-api/internal/modules/job/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ViewCounter counts job detail views in Redis and periodically flushes them
// into Postgres, so hot listings don't hammer the jobs table.
type ViewCounter interface {
	IncrementView(ctx context.Context, jobID uuid.UUID, userID uuid.UUID) error
	StartViewSyncWorker(ctx context.Context)
}

type viewCounter struct {
	redisClient *redis.Client
	jobRepo     jobRepo.JobRepository
}

func NewViewCounter(redisClient *redis.Client, repo jobRepo.JobRepository) ViewCounter {
	if redisClient == nil {
		return nil
	}
	return &viewCounter{
		redisClient: redisClient,
		jobRepo:     repo,
	}
}

func (s *viewCounter) IncrementView(ctx context.Context, jobID uuid.UUID, userID uuid.UUID) error {
	// A repeat view by the same user within an hour doesn't count.
	userViewKey := fmt.Sprintf("job:user_view:%s:%s", jobID, userID)

	exists, err := s.redisClient.Exists(ctx, userViewKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check user view: %w", err)
	}
	if exists == 1 {
		return nil
	}

	viewKey := fmt.Sprintf("job:views:%s", jobID)
	if _, err := s.redisClient.Incr(ctx, viewKey).Result(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	if _, err := s.redisClient.SAdd(ctx, "pending:job_views", jobID.String()).Result(); err != nil {
		return fmt.Errorf("failed to add to pending: %w", err)
	}

	if _, err := s.redisClient.SetEx(ctx, userViewKey, "viewed", time.Hour).Result(); err != nil {
		return fmt.Errorf("failed to set user view: %w", err)
	}

	return nil
}

func (s *viewCounter) syncViewsToDB(ctx context.Context) {
	pendingKey := "pending:job_views"

	jobIDs, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		log.Printf("Error getting pending job views: %v", err)
		return
	}

	if len(jobIDs) == 0 {
		return
	}

	for _, jobIDStr := range jobIDs {
		jobID, err := uuid.Parse(jobIDStr)
		if err != nil {
			log.Printf("Invalid job ID %s: %v", jobIDStr, err)
			continue
		}

		viewKey := fmt.Sprintf("job:views:%s", jobID)
		viewCount, err := s.redisClient.Get(ctx, viewKey).Int()
		if err != nil {
			if err != redis.Nil {
				log.Printf("Error getting view count for job %s: %v", jobID, err)
			}
			continue
		}

		if viewCount > 0 {
			job, err := s.jobRepo.FindByID(ctx, jobID)
			if err != nil {
				log.Printf("Job not found: %s: %v", jobID, err)
				continue
			}

			job.Views += viewCount

			if err := s.jobRepo.Update(ctx, job); err != nil {
				log.Printf("Failed to update job views in DB: %v", err)
				continue
			}

			if _, err := s.redisClient.Del(ctx, viewKey).Result(); err != nil {
				log.Printf("Failed to reset Redis counter: %v", err)
			}
		}
	}

	if _, err := s.redisClient.Del(ctx, pendingKey).Result(); err != nil {
		log.Printf("Failed to clear pending set: %v", err)
	}

	log.Printf("Synced views for %d jobs", len(jobIDs))
}

func (s *viewCounter) StartViewSyncWorker(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncViewsToDB(ctx)
		case <-ctx.Done():
			return
		}
	}
}
