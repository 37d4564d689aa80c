// Package scheduler runs the daily stale-complaint digest: unresolved
// complaints past the configured age get a reminder notification written for
// their assigned officer.
package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gramseva/gram-seva-backend/internal/config"
	prommetrics "github.com/gramseva/gram-seva-backend/internal/metrics"
	"github.com/gramseva/gram-seva-backend/internal/models"
	"github.com/gramseva/gram-seva-backend/internal/repository"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// ComplaintRepository interface for the digest queries.
type ComplaintRepository interface {
	ListUnresolvedOlderThan(cutoff time.Time) ([]models.Complaint, error)
	CreateNotification(notification *models.ComplaintNotification) error
}

// Service handles the daily digest scheduling.
type Service struct {
	config        *config.Config
	complaintRepo ComplaintRepository
	log           *logger.Logger
	cron          *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(
	cfg *config.Config,
	complaintRepo *repository.ComplaintRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		config:        cfg,
		complaintRepo: complaintRepo,
		log:           log,
	}
}

// NewServiceWithInterfaces creates a new scheduler service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	cfg *config.Config,
	complaintRepo ComplaintRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		config:        cfg,
		complaintRepo: complaintRepo,
		log:           log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Scheduler.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := s.config.Scheduler.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Scheduler.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	cronExpr, err := s.buildCronExpression()
	if err != nil {
		return fmt.Errorf("failed to build cron expression: %w", err)
	}

	_, err = s.cron.AddFunc(cronExpr, s.runDigest)
	if err != nil {
		return fmt.Errorf("failed to register digest job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", cronExpr).
		Str("timezone", s.config.Scheduler.Timezone).
		Int("stale_after_hours", s.config.Scheduler.StaleAfterHrs).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// buildCronExpression generates a daily cron expression from the configured
// HH:MM time.
func (s *Service) buildCronExpression() (string, error) {
	parts := strings.Split(s.config.Scheduler.Time, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time format %q, expected HH:MM", s.config.Scheduler.Time)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour %q", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute %q", parts[1])
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// staleAfter returns the minimum age before a complaint enters the digest.
func (s *Service) staleAfter() time.Duration {
	hours := s.config.Scheduler.StaleAfterHrs
	if hours <= 0 {
		hours = 48
	}
	return time.Duration(hours) * time.Hour
}

// runDigest executes the stale-complaint digest job.
func (s *Service) runDigest() {
	start := time.Now()
	s.log.Info().Msg("Running stale-complaint digest job")

	cutoff := time.Now().Add(-s.staleAfter())
	complaints, err := s.complaintRepo.ListUnresolvedOlderThan(cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list stale complaints")
		prommetrics.RecordDigestRun("error")
		return
	}

	notifications := buildDigestNotifications(complaints, time.Now())
	if len(notifications) == 0 {
		s.log.Debug().Msg("No stale complaints to notify about")
		prommetrics.RecordDigestRun("success")
		return
	}

	written := 0
	for i := range notifications {
		if err := s.complaintRepo.CreateNotification(&notifications[i]); err != nil {
			s.log.Error().
				Err(err).
				Str("complaint_id", notifications[i].ComplaintID).
				Msg("Failed to write digest notification")
			continue
		}
		written++
	}

	prommetrics.RecordDigestRun("success")
	prommetrics.RecordDigestNotifications(written)

	s.log.Info().
		Int("stale_complaints", len(complaints)).
		Int("notifications_written", written).
		Dur("duration", time.Since(start)).
		Msg("Digest job completed")
}
