// Package badge provides handlers for managing the badge catalog.
package badge

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	badgecontroller "github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/badge"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler/dashboard"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/navigation"
)

const (
	// Path is the base path for badge management.
	Path = handler.RootPath + "admin/badge"

	// TemplateList is the template for the badge catalog.
	TemplateList = "admin/badge/list"
)

// Service provides CRUD operations for badges.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	guard := auth.RequirePermission(authService, auth.PermManageUsers)

	app.Get(Path, guard, s.List)
	app.Post(Path, guard, s.Create)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/delete", guard, s.Delete)
}

func listNav() *navigation.Context {
	return navigation.NewContext("Badges", "admin", "badge").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Administration", "#", false).
		AddBreadcrumb("Badges", Path, true)
}

// List shows the badge catalog ordered by points threshold.
func (s *Service) List(c *fiber.Ctx) error {
	badges, err := badgecontroller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load badges")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load badges",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Badges":     badges,
	}, handler.BaseLayout)
}

func parseBadgeForm(c *fiber.Ctx) (*models.Badge, error) {
	points, err := strconv.Atoi(c.FormValue("points_required", "0"))
	if err != nil {
		return nil, errors.New("points threshold must be a number")
	}

	return &models.Badge{
		Name:           strings.TrimSpace(c.FormValue("name")),
		Description:    strings.TrimSpace(c.FormValue("description")),
		IconName:       strings.TrimSpace(c.FormValue("icon_name")),
		PointsRequired: points,
	}, nil
}

// Create adds a badge to the catalog.
func (s *Service) Create(c *fiber.Ctx) error {
	b, err := parseBadgeForm(c)
	if err == nil {
		_, err = badgecontroller.Create(s.db, b)
	}

	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create badge: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}

// Update modifies an existing badge.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	b, err := parseBadgeForm(c)
	if err == nil {
		b.ID = id
		_, err = badgecontroller.Update(s.db, b)
	}

	if err != nil {
		if errors.Is(err, badgecontroller.ErrBadgeNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to update badge: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}

// Delete removes a badge from the catalog.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	if err := badgecontroller.Delete(s.db, id); err != nil && !errors.Is(err, badgecontroller.ErrBadgeNotFound) {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to delete badge: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}
