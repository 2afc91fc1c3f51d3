package daemon

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/activity"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/inventory"
)

const (
	activityReminderSchedule = "0 7 * * *"
	lowStockReportSchedule   = "0 6 * * 1"

	reminderWindow = 48 * time.Hour
	reminderLimit  = 20
)

// Scheduler runs the recurring background jobs: upcoming activity reminders
// and the low stock report.
type Scheduler struct {
	cron *cron.Cron
	db   *gorm.DB
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		db:   db,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(activityReminderSchedule, s.activityReminderJob); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(lowStockReportSchedule, s.lowStockReportJob); err != nil {
		return err
	}

	s.cron.Start()
	log.Info().Msg("scheduler started")

	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) activityReminderJob() {
	now := time.Now()

	upcoming, err := activity.GetUpcoming(s.db, now, reminderLimit)
	if err != nil {
		log.Error().Err(err).Msg("activity reminder job failed")

		return
	}

	for _, act := range upcoming {
		if act.Date.After(now.Add(reminderWindow)) {
			continue
		}

		log.Info().
			Str("activity", act.Name).
			Time("date", act.Date).
			Str("location", act.Location).
			Msg("upcoming activity reminder")
	}
}

func (s *Scheduler) lowStockReportJob() {
	items, err := inventory.GetLowStock(s.db)
	if err != nil {
		log.Error().Err(err).Msg("low stock report job failed")

		return
	}

	for _, item := range items {
		log.Warn().
			Str("item", item.ItemName).
			Int("quantity", item.Quantity).
			Int("min_quantity", item.MinQuantity).
			Msg("inventory item below minimum stock")
	}
}
