package scheduler

import (
	"context"

	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/storage"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ImageCleanupScheduler removes stored images no recipe references anymore.
// Replaced and deleted recipes clean up their own images inline; the sweep
// catches objects left behind by crashes between storage write and commit.
type ImageCleanupScheduler struct {
	cron       *cron.Cron
	recipeRepo repository.RecipeRepository
	images     storage.ImageStore
}

func NewImageCleanupScheduler(recipeRepo repository.RecipeRepository, images storage.ImageStore) *ImageCleanupScheduler {
	return &ImageCleanupScheduler{
		cron:       cron.New(),
		recipeRepo: recipeRepo,
		images:     images,
	}
}

func (s *ImageCleanupScheduler) Start() error {
	// Nightly at 03:00
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.Sweep(context.Background()); err != nil {
			logger.Error("Scheduled image sweep failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for image cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Image cleanup scheduler started successfully (daily at 3:00 AM)", nil)
	return nil
}

func (s *ImageCleanupScheduler) Stop() {
	logger.Info("Stopping image cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Image cleanup scheduler stopped", nil)
}

// Sweep deletes every stored image key that no recipe row references.
func (s *ImageCleanupScheduler) Sweep(ctx context.Context) error {
	logger.Info("Starting orphaned image sweep", nil)

	referenced, err := s.recipeRepo.FindAllImageKeys()
	if err != nil {
		return err
	}
	inUse := make(map[string]struct{}, len(referenced))
	for _, key := range referenced {
		inUse[key] = struct{}{}
	}

	stored, err := s.images.ListKeys(ctx)
	if err != nil {
		return err
	}

	removed := 0
	for _, key := range stored {
		if _, ok := inUse[key]; ok {
			continue
		}
		if err := s.images.Delete(ctx, key); err != nil {
			logger.Warn("Failed to delete orphaned image", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			continue
		}
		removed++
	}

	logger.Info("Orphaned image sweep completed", map[string]interface{}{
		"stored":     len(stored),
		"referenced": len(referenced),
		"removed":    removed,
	})
	return nil
}
