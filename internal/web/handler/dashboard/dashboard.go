// Package dashboard provides the dashboard handler showing upcoming activities
// and unit membership counts.
package dashboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/activity"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/progression"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/navigation"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// UpcomingLimit caps the number of activities shown on the dashboard.
	UpcomingLimit = 5
)

// MemberCounts holds the per-status membership counters.
type MemberCounts struct {
	Cadets     int64
	Animateurs int64
	Parents    int64
	Total      int64
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path,
		auth.RequireAnyPermission(authService, auth.PermViewActivities, auth.PermManageActivities),
		s.Get,
	)
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Tableau de bord", "dashboard", "dashboard").
		AddBreadcrumb("Accueil", Path, false).
		AddBreadcrumb("Tableau de bord", Path, true)

	upcoming, err := activity.GetUpcoming(s.db, time.Now(), UpcomingLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load upcoming activities")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load activities")
	}

	counts, err := s.memberCounts()
	if err != nil {
		log.Error().Err(err).Msg("failed to count members")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load member counts")
	}

	data := fiber.Map{
		"Navigation": nav,
		"Upcoming":   upcoming,
		"Members":    counts,
	}

	// the logged-in member's own progression summary
	if sessionID := c.Cookies("session"); sessionID != "" {
		sessionData := new(session.Data)
		if errSess := sessionData.Read(sessionID); errSess == nil && sessionData.User.ID > 0 {
			points, errPoints := progression.Points(s.db, sessionData.User.ID)
			if errPoints == nil {
				data["Points"] = points
				data["Level"] = progression.Level(points)
				data["LevelProgress"] = progression.NextLevelProgress(points)
			}
		}
	}

	return c.Render(TemplateName, data, handler.BaseLayout)
}

func (s *Service) memberCounts() (MemberCounts, error) {
	var counts MemberCounts

	type statusCount struct {
		Status models.Status
		Count  int64
	}

	var rows []statusCount

	err := s.db.Model(&models.User{}).
		Select("status, COUNT(*) AS count").
		Where("active = ?", true).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return counts, err
	}

	for _, row := range rows {
		counts.Total += row.Count

		switch row.Status {
		case models.StatusCadet, models.StatusAMC:
			counts.Cadets += row.Count
		case models.StatusAnimateur:
			counts.Animateurs += row.Count
		case models.StatusParent:
			counts.Parents += row.Count
		}
	}

	return counts, nil
}
