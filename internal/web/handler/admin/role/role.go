// Package role provides handlers for managing roles and their permission
// bindings in the admin area.
package role

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/permission"
	rolecontroller "github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/role"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler/dashboard"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/navigation"
)

const (
	// Path is the base path for role management.
	Path = handler.RootPath + "admin/role"

	// TemplateList is the template for listing roles.
	TemplateList = "admin/role/list"
	// TemplateForm is the template for editing a role and its permissions.
	TemplateForm = "admin/role/form"
)

// Service provides CRUD operations for roles.
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

	guard := auth.RequirePermission(authService, auth.PermManageRoles)

	app.Get(Path, guard, s.List)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id/edit", guard, s.Edit)
	app.Post(Path+"/:id/permissions", guard, s.UpdatePermissions)
	app.Post(Path+"/:id/delete", guard, s.Delete)
}

func listNav() *navigation.Context {
	return navigation.NewContext("Rôles", "admin", "role").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Administration", "#", false).
		AddBreadcrumb("Rôles", Path, true)
}

// List shows all roles.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := rolecontroller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load roles")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load roles",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Roles":      roles,
		"Flash":      c.Query("flash", ""),
	}, handler.BaseLayout)
}

// Create creates a new empty role.
func (s *Service) Create(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	description := strings.TrimSpace(c.FormValue("description"))

	created, err := rolecontroller.Create(s.db, name, description)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create role: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path + "/" + strconv.FormatUint(uint64(created.ID), 10) + "/edit")
}

// Edit shows a role with its bound and available permissions.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	role, err := rolecontroller.GetByID(s.db, uint(id))
	if err != nil {
		if errors.Is(err, rolecontroller.ErrRoleNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load role",
		}, handler.BaseLayout)
	}

	bound, err := rolecontroller.GetPermissions(s.db, role.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load role permissions",
		}, handler.BaseLayout)
	}

	catalog, err := permission.GetAll(s.db)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load permission catalog",
		}, handler.BaseLayout)
	}

	boundNames := make(map[string]bool, len(bound))
	for _, p := range bound {
		boundNames[p.Name] = true
	}

	nav := navigation.NewContext("Modifier le rôle", "admin", "role").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Administration", "#", false).
		AddBreadcrumb("Rôles", Path, false).
		AddBreadcrumb(role.Name, Path+"/"+strconv.FormatUint(id, 10)+"/edit", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Role":       role,
		"Catalog":    catalog,
		"BoundNames": boundNames,
	}, handler.BaseLayout)
}

// UpdatePermissions replaces the role's permission bindings with the checked
// set, reporting any unknown permission names that got skipped.
func (s *Service) UpdatePermissions(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	names := make([]string, 0)

	for _, raw := range strings.Split(c.FormValue("permissions"), ",") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			names = append(names, trimmed)
		}
	}

	result, err := rolecontroller.UpdatePermissions(s.db, uint(id), names)
	if err != nil {
		if errors.Is(err, rolecontroller.ErrRoleNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Failed to update permissions: " + err.Error(),
		}, handler.BaseLayout)
	}

	if len(result.SkippedUnknown) > 0 {
		log.Warn().
			Uint64("role_id", id).
			Strs("skipped", result.SkippedUnknown).
			Msg("unknown permission names skipped")
	}

	return c.Redirect(updateFlashTarget(result))
}

// updateFlashTarget builds the list redirect carrying the update summary.
// The message holds spaces and commas, so it has to be query escaped before
// it goes into the Location header.
func updateFlashTarget(result *rolecontroller.UpdateResult) string {
	flash := strconv.Itoa(result.Applied) + " permission(s) applied"
	if len(result.SkippedUnknown) > 0 {
		flash += ", skipped unknown: " + strings.Join(result.SkippedUnknown, ", ")
	}

	return Path + "?flash=" + url.QueryEscape(flash)
}

// Delete removes a role unless members still hold it.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	if err := rolecontroller.Delete(s.db, uint(id)); err != nil {
		msg := "Failed to delete role: " + err.Error()
		if errors.Is(err, rolecontroller.ErrRoleInUse) {
			msg = "This role is still assigned to members and cannot be deleted."
		}

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      msg,
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}
