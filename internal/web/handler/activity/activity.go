// Package activity provides the activity pages: listing, management and the
// QR code attendance flow.
package activity

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	activitycontroller "github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/activity"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/inventory"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler/dashboard"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/navigation"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/session"
)

const (
	// Path is the base path for activity pages.
	Path = handler.RootPath + "activity"

	// TemplateList is the template for listing activities.
	TemplateList = "activity/list"
	// TemplateDetail is the template for a single activity.
	TemplateDetail = "activity/detail"
	// TemplateQR is the template showing the entry and exit QR codes.
	TemplateQR = "activity/qr"

	dateLayout = "2006-01-02"
)

// Service provides the activity handlers.
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

	view := auth.RequireAnyPermission(authService, auth.PermViewActivities, auth.PermManageActivities)
	manage := auth.RequirePermission(authService, auth.PermManageActivities)
	scan := auth.RequirePermission(authService, auth.PermScanQRCodes)
	attendance := auth.RequirePermission(authService, auth.PermManageAttendance)

	app.Get(Path, view, s.List)
	app.Get(Path+"/:id", view, s.Detail)
	app.Post(Path, manage, s.Create)
	app.Post(Path+"/:id", manage, s.Update)
	app.Post(Path+"/:id/delete", manage, s.Delete)
	app.Post(Path+"/:id/equipment", manage, s.UpdateEquipment)
	app.Get(Path+"/:id/qr", attendance, s.QRCodes)
	app.Post(Path+"/:id/checkin", scan, s.CheckIn)
	app.Post(Path+"/:id/checkout", scan, s.CheckOut)
}

func listNav() *navigation.Context {
	return navigation.NewContext("Activités", "activity", "list").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Activités", Path, true)
}

// List shows all activities, most recent first.
func (s *Service) List(c *fiber.Ctx) error {
	activities, err := activitycontroller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load activities")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load activities",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Activities": activities,
		"Now":        time.Now(),
	}, handler.BaseLayout)
}

// Detail shows one activity with its equipment list and attendance.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	act, err := activitycontroller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, activitycontroller.ErrActivityNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load activity")
	}

	equipment, err := activitycontroller.GetEquipment(s.db, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to load activity equipment")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load equipment")
	}

	attendance, err := activitycontroller.GetAttendance(s.db, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to load attendance")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load attendance")
	}

	items, err := inventory.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load inventory")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load inventory")
	}

	nav := navigation.NewContext(act.Name, "activity", "detail").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Activités", Path, false).
		AddBreadcrumb(act.Name, Path+"/"+strconv.FormatUint(id, 10), true)

	return c.Render(TemplateDetail, fiber.Map{
		"Navigation": nav,
		"Activity":   act,
		"Equipment":  equipment,
		"Attendance": attendance,
		"Inventory":  items,
	}, handler.BaseLayout)
}

type activityForm struct {
	act    *models.Activity
	errMsg string
}

func parseActivityForm(c *fiber.Ctx) activityForm {
	date, err := time.Parse(dateLayout, c.FormValue("date"))
	if err != nil {
		return activityForm{errMsg: "Invalid date, expected YYYY-MM-DD"}
	}

	maxParticipants := 0

	if raw := c.FormValue("max_participants"); raw != "" {
		maxParticipants, err = strconv.Atoi(raw)
		if err != nil || maxParticipants < 0 {
			return activityForm{errMsg: "Participant limit must be a positive number"}
		}
	}

	return activityForm{act: &models.Activity{
		Name:            strings.TrimSpace(c.FormValue("name")),
		Description:     strings.TrimSpace(c.FormValue("description")),
		Date:            date,
		StartTime:       c.FormValue("start_time"),
		EndTime:         c.FormValue("end_time"),
		Location:        strings.TrimSpace(c.FormValue("location")),
		MaxParticipants: maxParticipants,
		LunchIncluded:   c.FormValue("lunch_included") != "",
		DinnerIncluded:  c.FormValue("dinner_included") != "",
	}}
}

// Create adds an activity; entry and exit QR tokens are generated server-side.
func (s *Service) Create(c *fiber.Ctx) error {
	form := parseActivityForm(c)
	if form.errMsg != "" {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      form.errMsg,
		}, handler.BaseLayout)
	}

	created, err := activitycontroller.Create(s.db, form.act)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create activity: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path + "/" + strconv.FormatUint(created.ID, 10))
}

// Update modifies an activity while keeping its QR tokens stable.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	form := parseActivityForm(c)
	if form.errMsg != "" {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      form.errMsg,
		}, handler.BaseLayout)
	}

	form.act.ID = id

	if _, err := activitycontroller.Update(s.db, form.act); err != nil {
		if errors.Is(err, activitycontroller.ErrActivityNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to update activity: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path + "/" + strconv.FormatUint(id, 10))
}

// Delete removes an activity together with its attendance records.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	if err := activitycontroller.Delete(s.db, id); err != nil && !errors.Is(err, activitycontroller.ErrActivityNotFound) {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to delete activity: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}

// UpdateEquipment replaces the equipment list required for an activity.
func (s *Service) UpdateEquipment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	inventoryIDs := make([]uint64, 0)

	for _, raw := range strings.Split(c.FormValue("inventory_ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		itemID, errParse := strconv.ParseUint(raw, 10, 64)
		if errParse != nil || itemID == 0 {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid inventory identifier: " + raw)
		}

		inventoryIDs = append(inventoryIDs, itemID)
	}

	if err := activitycontroller.UpdateEquipment(s.db, id, inventoryIDs); err != nil {
		if errors.Is(err, activitycontroller.ErrActivityNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusBadRequest).SendString("Failed to update equipment: " + err.Error())
	}

	return c.Redirect(Path + "/" + strconv.FormatUint(id, 10))
}

// QRCodes renders the entry and exit tokens for on-site display.
func (s *Service) QRCodes(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	act, err := activitycontroller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, activitycontroller.ErrActivityNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load activity")
	}

	nav := navigation.NewContext("QR codes", "activity", "qr").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Activités", Path, false).
		AddBreadcrumb(act.Name, Path+"/"+strconv.FormatUint(id, 10), false).
		AddBreadcrumb("QR codes", Path+"/"+strconv.FormatUint(id, 10)+"/qr", true)

	return c.Render(TemplateQR, fiber.Map{
		"Navigation": nav,
		"Activity":   act,
	}, handler.BaseLayout)
}

// CheckIn records the scanning member's arrival using the entry QR token.
func (s *Service) CheckIn(c *fiber.Ctx) error {
	return s.scan(c, activitycontroller.CheckIn)
}

// CheckOut records the scanning member's departure using the exit QR token.
func (s *Service) CheckOut(c *fiber.Ctx) error {
	return s.scan(c, activitycontroller.CheckOut)
}

func (s *Service) scan(
	c *fiber.Ctx,
	record func(*gorm.DB, uint64, uint64, string) (*models.Attendance, error),
) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid activity"})
	}

	userID := s.currentUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	token := c.FormValue("token")

	att, err := record(s.db, id, userID, token)
	if err != nil {
		status := fiber.StatusBadRequest

		switch {
		case errors.Is(err, activitycontroller.ErrActivityNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, activitycontroller.ErrActivityFull):
			status = fiber.StatusConflict
		case errors.Is(err, activitycontroller.ErrAlreadyCheckedIn),
			errors.Is(err, activitycontroller.ErrNotCheckedIn):
			status = fiber.StatusConflict
		}

		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	log.Info().
		Uint64("activity_id", id).
		Uint64("user_id", userID).
		Msg("attendance recorded")

	return c.JSON(fiber.Map{
		"activity_id":    att.ActivityID,
		"user_id":        att.UserID,
		"check_in_time":  att.CheckInTime,
		"check_out_time": att.CheckOutTime,
	})
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
