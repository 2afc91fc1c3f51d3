// Package user provides handlers for managing members (CRUD) in the admin area.
package user

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	usercontroller "github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/user"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler/dashboard"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/navigation"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/session"
)

const (
	// Path is the base path for member management.
	Path = handler.RootPath + "admin/user"

	// TemplateList is the template for listing members.
	TemplateList = "admin/user/list"
	// TemplateForm is the template for creating/updating a member.
	TemplateForm = "admin/user/form"
)

// Service provides CRUD operations for members.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
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
	s.validator = validator.New()

	guard := auth.RequirePermission(authService, auth.PermManageUsers)

	app.Get(Path, guard, s.List)
	app.Get(Path+"/new", guard, s.New)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id/edit", guard, s.Edit)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/password", guard, s.ResetPassword)
	app.Post(Path+"/:id/children", guard, s.LinkChild)
	app.Post(Path+"/delete", guard, s.BulkDelete)
}

func listNav() *navigation.Context {
	return navigation.NewContext("Membres", "admin", "user").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Administration", "#", false).
		AddBreadcrumb("Membres", Path, true)
}

// List shows members with a simple search filter.
func (s *Service) List(c *fiber.Ctx) error {
	nav := listNav()

	search := c.Query("search", "")
	status := c.Query("status", "")

	tx := s.db.Model(&models.User{}).Preload("Roles")

	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("email LIKE ? OR name LIKE ? OR first_name LIKE ?", like, like, like)
	}

	if models.Status(status).Valid() {
		tx = tx.Where("status = ?", status)
	}

	var users []models.User
	if err := tx.Order("name ASC, first_name ASC").Find(&users).Error; err != nil {
		log.Error().Err(err).Msg("query users failed")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load members",
			"Search":     search,
		}, handler.BaseLayout)
	}

	var currentUserID uint64

	if sessionID := c.Cookies("session"); sessionID != "" {
		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err == nil {
			currentUserID = sessionData.User.ID
		}
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation":    nav,
		"Users":         users,
		"CurrentUserID": currentUserID,
		"Search":        search,
		"Status":        status,
		"Statuses":      models.Statuses,
	}, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	nav := navigation.NewContext("Nouveau membre", "admin", "user").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Administration", "#", false).
		AddBreadcrumb("Membres", Path, false).
		AddBreadcrumb("Nouveau", Path+"/new", true)

	var roles []models.Role
	if err := s.db.Order("name ASC").Find(&roles).Error; err != nil {
		log.Error().Err(err).Msg("failed to load roles")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load roles",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"User":       models.User{AuthSource: models.AuthSourceLocal, Active: true, Status: models.StatusCadet},
		"IsCreate":   true,
		"Roles":      roles,
		"Statuses":   models.Statuses,
	}, handler.BaseLayout)
}

type memberForm struct {
	Email     string `form:"email"      validate:"required,email,max=255"`
	Name      string `form:"name"       validate:"required,max=100"`
	FirstName string `form:"first_name" validate:"max=100"`
	Rank      string `form:"rank"       validate:"max=100"`
	Status    string `form:"status"     validate:"required"`
	Password  string `form:"password"`
	Active    bool   `form:"active"`
	Roles     string `form:"roles"` // comma-separated role names
}

func (f *memberForm) roleNames() []string {
	if f.Roles == "" {
		return nil
	}

	parts := strings.Split(f.Roles, ",")
	names := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}

	return names
}

// Create creates a new member and assigns the selected roles.
func (s *Service) Create(c *fiber.Ctx) error {
	var in memberForm

	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Invalid form data",
		}, handler.BaseLayout)
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Please correct the highlighted errors",
		}, handler.BaseLayout)
	}

	newUser := models.User{
		Email:      in.Email,
		Name:       in.Name,
		FirstName:  in.FirstName,
		Rank:       in.Rank,
		Status:     models.Status(in.Status),
		Active:     in.Active,
		AuthSource: models.AuthSourceLocal,
	}

	if in.Password != "" {
		newUser.Password = models.HashPassword(in.Password)
	}

	created, err := usercontroller.Create(s.db, &newUser)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create member: " + err.Error(),
		}, handler.BaseLayout)
	}

	if roleNames := in.roleNames(); len(roleNames) > 0 {
		if err := usercontroller.SetRoles(s.db, created.ID, roleNames); err != nil {
			log.Error().Err(err).Uint64("user_id", created.ID).Msg("failed to assign roles")

			return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
				"Navigation": listNav(),
				"Error":      "Member created but role assignment failed: " + err.Error(),
			}, handler.BaseLayout)
		}
	}

	return c.Redirect(Path)
}

// Edit shows the edit form for a member.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	member, err := usercontroller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, usercontroller.ErrUserNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load member",
		}, handler.BaseLayout)
	}

	var roles []models.Role
	if err := s.db.Order("name ASC").Find(&roles).Error; err != nil {
		log.Error().Err(err).Msg("failed to load roles")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load roles",
		}, handler.BaseLayout)
	}

	memberRoles, err := usercontroller.GetRoles(s.db, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to load member roles")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load member roles",
		}, handler.BaseLayout)
	}

	children, err := usercontroller.Children(s.db, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to load children")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load children",
		}, handler.BaseLayout)
	}

	nav := navigation.NewContext("Modifier le membre", "admin", "user").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Administration", "#", false).
		AddBreadcrumb("Membres", Path, false).
		AddBreadcrumb("Modifier", Path+"/"+strconv.FormatUint(id, 10)+"/edit", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation":  nav,
		"User":        member,
		"IsCreate":    false,
		"Roles":       roles,
		"MemberRoles": memberRoles,
		"Children":    children,
		"Statuses":    models.Statuses,
	}, handler.BaseLayout)
}

// Update updates a member and replaces its role assignments.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	var in memberForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Invalid form data",
		}, handler.BaseLayout)
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Please correct the highlighted errors",
		}, handler.BaseLayout)
	}

	member, err := usercontroller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, usercontroller.ErrUserNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load member",
		}, handler.BaseLayout)
	}

	member.Email = in.Email
	member.Name = in.Name
	member.FirstName = in.FirstName
	member.Rank = in.Rank
	member.Status = models.Status(in.Status)
	member.Active = in.Active

	if _, err := usercontroller.Update(s.db, member); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Failed to update member: " + err.Error(),
		}, handler.BaseLayout)
	}

	if err := usercontroller.SetRoles(s.db, id, in.roleNames()); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Failed to update roles: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}

// ResetPassword sets a new password on a local member account.
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	password := c.FormValue("password")
	if password == "" {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Password cannot be empty",
		}, handler.BaseLayout)
	}

	if err := usercontroller.SetPassword(s.db, id, models.HashPassword(password)); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to reset password: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path + "/" + strconv.FormatUint(id, 10) + "/edit")
}

// LinkChild links a cadet to a parent account.
func (s *Service) LinkChild(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	childID, err := strconv.ParseUint(c.FormValue("child_id"), 10, 64)
	if err != nil || childID == 0 {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Invalid child identifier",
		}, handler.BaseLayout)
	}

	if err := usercontroller.AddChild(s.db, id, childID); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to link child: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path + "/" + strconv.FormatUint(id, 10) + "/edit")
}

// BulkDelete removes the selected members, refusing to delete the current
// account.
func (s *Service) BulkDelete(c *fiber.Ctx) error {
	ids := make([]uint64, 0)

	for _, raw := range strings.Split(c.FormValue("ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
				"Navigation": listNav(),
				"Error":      "Invalid member identifier: " + raw,
			}, handler.BaseLayout)
		}

		ids = append(ids, id)
	}

	// a user may not delete their own account
	if sessionID := c.Cookies("session"); sessionID != "" {
		current := new(session.Data)
		if errSess := current.Read(sessionID); errSess == nil {
			for _, id := range ids {
				if id == current.User.ID {
					return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
						"Navigation": listNav(),
						"Error":      "You cannot delete your own account.",
					}, handler.BaseLayout)
				}
			}
		}
	}

	if err := usercontroller.BulkDelete(s.db, ids); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to delete members: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}
