// Package evaluationtype provides handlers for managing evaluation categories.
package evaluationtype

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	etcontroller "github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/evaluationtype"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler/dashboard"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/navigation"
)

const (
	// Path is the base path for evaluation type management.
	Path = handler.RootPath + "admin/evaluationtype"

	// TemplateList is the template for listing evaluation types.
	TemplateList = "admin/evaluationtype/list"
)

// Service provides CRUD operations for evaluation types.
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
	return navigation.NewContext("Types d'évaluation", "admin", "evaluationtype").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Administration", "#", false).
		AddBreadcrumb("Types d'évaluation", Path, true)
}

// List shows all evaluation types.
func (s *Service) List(c *fiber.Ctx) error {
	types, err := etcontroller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load evaluation types")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load evaluation types",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Types":      types,
	}, handler.BaseLayout)
}

func parseForm(c *fiber.Ctx) (*models.EvaluationType, error) {
	minRating, err := strconv.Atoi(c.FormValue("min_rating", "1"))
	if err != nil {
		return nil, errors.New("minimum rating must be a number")
	}

	maxRating, err := strconv.Atoi(c.FormValue("max_rating", "5"))
	if err != nil {
		return nil, errors.New("maximum rating must be a number")
	}

	return &models.EvaluationType{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		MinRating:   minRating,
		MaxRating:   maxRating,
		Active:      c.FormValue("active") != "",
	}, nil
}

// Create adds an evaluation type.
func (s *Service) Create(c *fiber.Ctx) error {
	evalType, err := parseForm(c)
	if err == nil {
		_, err = etcontroller.Create(s.db, evalType)
	}

	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create evaluation type: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}

// Update modifies an evaluation type.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	evalType, err := parseForm(c)
	if err == nil {
		evalType.ID = id
		_, err = etcontroller.Update(s.db, evalType)
	}

	if err != nil {
		if errors.Is(err, etcontroller.ErrTypeNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to update evaluation type: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}

// Delete removes an evaluation type unless notes still reference it.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	if err := etcontroller.Delete(s.db, id); err != nil {
		msg := "Failed to delete evaluation type: " + err.Error()
		if errors.Is(err, etcontroller.ErrTypeInUse) {
			msg = "Notes reference this evaluation type; deactivate it instead."
		}

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      msg,
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}
