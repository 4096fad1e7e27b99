package cron

import (
	"context"
	"log"
	"time"

	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/robfig/cron/v3"
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	userRepo repository.UserRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(userRepo repository.UserRepository) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		userRepo: userRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every day at 3 AM - purge expired password reset codes
	s.cron.AddFunc("0 3 * * *", func() {
		log.Println("[Cron] Purging expired password reset codes...")
		s.purgeExpiredResetCodes()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) purgeExpiredResetCodes() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.userRepo.PurgeExpiredResetCodes(ctx)
	if err != nil {
		log.Printf("[Cron] Failed to purge reset codes: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("[Cron] Purged %d expired reset codes", purged)
	}
}
