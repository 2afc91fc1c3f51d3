// Package progression provides the progression pages: points, level, badges
// and evaluation notes for a member, their children or the whole unit.
package progression

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/evaluationtype"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/note"
	usercontroller "github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/user"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/progression"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler/dashboard"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/navigation"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/session"
)

const (
	// Path is the base path for progression pages.
	Path = handler.RootPath + "progression"

	// TemplateName is the progression template.
	TemplateName = "progression/detail"

	dateLayout = "2006-01-02"
)

// Service provides the progression handlers.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. The self view has no permission guard: every
// authenticated member may see their own progression.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService

	staff := auth.RequirePermission(authService, auth.PermViewReports)
	parent := auth.RequirePermission(authService, auth.PermViewChildProgression)

	app.Get(Path, s.Self)
	app.Get(Path+"/user/:id", staff, s.Member)
	app.Get(Path+"/child/:id", parent, s.Child)
	app.Post(Path+"/user/:id/note", staff, s.AddNote)
	app.Post(Path+"/note/:id/delete", staff, s.DeleteNote)
}

// Self renders the logged-in member's own progression.
func (s *Service) Self(c *fiber.Ctx) error {
	userID := s.currentUserID(c)
	if userID == 0 {
		return c.Redirect("/login")
	}

	return s.render(c, userID, "Ma progression")
}

// Member renders any member's progression for staff.
func (s *Service) Member(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	return s.render(c, id, "Progression")
}

// Child renders a child's progression for its linked parent. Parents may only
// see their own children.
func (s *Service) Child(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	parentID := s.currentUserID(c)
	if parentID == 0 {
		return c.Redirect("/login")
	}

	children, err := usercontroller.Children(s.db, parentID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load children")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load children")
	}

	linked := false

	for _, child := range children {
		if child.ID == id {
			linked = true
			break
		}
	}

	if !linked {
		return c.Status(fiber.StatusForbidden).SendString("Forbidden")
	}

	return s.render(c, id, "Progression")
}

// AddNote records an evaluation note for a member, authored by the current
// user.
func (s *Service) AddNote(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	evaluatorID := s.currentUserID(c)
	if evaluatorID == 0 {
		return c.Redirect("/login")
	}

	typeID, err := strconv.ParseUint(c.FormValue("evaluation_type_id"), 10, 64)
	if err != nil || typeID == 0 {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid evaluation type")
	}

	rating, err := strconv.Atoi(c.FormValue("rating"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Rating must be a number")
	}

	newNote := &models.UserNote{
		UserID:           id,
		EvaluatorID:      evaluatorID,
		EvaluationTypeID: typeID,
		Rating:           rating,
		Appreciation:     c.FormValue("appreciation"),
	}

	if raw := c.FormValue("note_date"); raw != "" {
		noteDate, errDate := time.Parse(dateLayout, raw)
		if errDate != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid date, expected YYYY-MM-DD")
		}

		newNote.NoteDate = noteDate
	}

	if _, err := note.Add(s.db, newNote); err != nil {
		status := fiber.StatusBadRequest

		switch {
		case errors.Is(err, note.ErrTypeNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, note.ErrTypeInactive), errors.Is(err, note.ErrRatingOutOfBounds):
			status = fiber.StatusBadRequest
		}

		return c.Status(status).SendString("Failed to add note: " + err.Error())
	}

	return c.Redirect(Path + "/user/" + strconv.FormatUint(id, 10))
}

// DeleteNote removes a note; only its author may do so.
func (s *Service) DeleteNote(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	evaluatorID := s.currentUserID(c)
	if evaluatorID == 0 {
		return c.Redirect("/login")
	}

	if err := note.Delete(s.db, id, evaluatorID); err != nil {
		if errors.Is(err, note.ErrNotEvaluator) {
			return c.Status(fiber.StatusForbidden).SendString("Only the author can delete this note")
		}

		return c.Status(fiber.StatusBadRequest).SendString("Failed to delete note: " + err.Error())
	}

	return c.Redirect(Path)
}

// render builds the full progression view for one member: points, level,
// badge walls and the note history with its date range filter.
func (s *Service) render(c *fiber.Ctx, userID uint64, title string) error {
	member, err := usercontroller.GetByID(s.db, userID)
	if err != nil {
		if errors.Is(err, usercontroller.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Member not found")
		}

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load member")
	}

	points, err := progression.Points(s.db, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to compute points")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to compute progression")
	}

	unlocked, err := progression.UnlockedBadges(s.db, points)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load badges")
	}

	locked, err := progression.LockedBadges(s.db, points)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load badges")
	}

	var from, to time.Time

	if raw := c.Query("from"); raw != "" {
		from, _ = time.Parse(dateLayout, raw)
	}

	if raw := c.Query("to"); raw != "" {
		to, _ = time.Parse(dateLayout, raw)
	}

	notes, err := note.ListForUser(s.db, userID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load notes")
	}

	types, err := evaluationtype.GetActive(s.db)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load evaluation types")
	}

	nav := navigation.NewContext(title, "progression", "detail").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Progression", Path, true)

	return c.Render(TemplateName, fiber.Map{
		"Navigation":    nav,
		"Member":        member,
		"Points":        points,
		"Level":         progression.Level(points),
		"LevelProgress": progression.NextLevelProgress(points),
		"Unlocked":      unlocked,
		"Locked":        locked,
		"Notes":         notes,
		"Types":         types,
	}, handler.BaseLayout)
}

func (s *Service) currentUserID(c *fiber.Ctx) uint64 {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return 0
	}

	sessionData := new(session.Data)
	if err := sessionData.Read(sessionID); err != nil {
		return 0
	}

	return sessionData.User.ID
}
