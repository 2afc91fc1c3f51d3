// Package inventory provides handlers for managing stock and equipment
// assignments.
package inventory

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	inventorycontroller "github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/inventory"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler/dashboard"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/navigation"
)

const (
	// Path is the base path for inventory management.
	Path = handler.RootPath + "inventory"

	// TemplateList is the template for the stock overview.
	TemplateList = "inventory/list"
)

// Service provides inventory handlers.
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

	guard := auth.RequirePermission(authService, auth.PermManageInventory)

	app.Get(Path, guard, s.List)
	app.Post(Path, guard, s.Create)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/delete", guard, s.Delete)
	app.Post(Path+"/:id/assign", guard, s.Assign)
	app.Post(Path+"/assignments/:id/return", guard, s.Return)
}

func listNav() *navigation.Context {
	return navigation.NewContext("Inventaire", "inventory", "list").
		AddBreadcrumb("Accueil", dashboard.Path, false).
		AddBreadcrumb("Inventaire", Path, true)
}

func (s *Service) renderList(c *fiber.Ctx, status int, errMsg string) error {
	items, err := inventorycontroller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load inventory")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load inventory",
		}, handler.BaseLayout)
	}

	lowStock, err := inventorycontroller.GetLowStock(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load low stock items")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load low stock items",
		}, handler.BaseLayout)
	}

	data := fiber.Map{
		"Navigation": listNav(),
		"Items":      items,
		"LowStock":   lowStock,
	}

	if errMsg != "" {
		data["Error"] = errMsg
	}

	return c.Status(status).Render(TemplateList, data, handler.BaseLayout)
}

// List shows the stock overview with the low stock report.
func (s *Service) List(c *fiber.Ctx) error {
	return s.renderList(c, fiber.StatusOK, "")
}

func parseItemForm(c *fiber.Ctx) (*models.InventoryItem, error) {
	quantity, err := strconv.Atoi(c.FormValue("quantity", "0"))
	if err != nil {
		return nil, errors.New("quantity must be a number")
	}

	minQuantity, err := strconv.Atoi(c.FormValue("min_quantity", "0"))
	if err != nil {
		return nil, errors.New("minimum quantity must be a number")
	}

	return &models.InventoryItem{
		ItemName:    strings.TrimSpace(c.FormValue("item_name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Category:    strings.TrimSpace(c.FormValue("category")),
		Quantity:    quantity,
		Unit:        strings.TrimSpace(c.FormValue("unit")),
		MinQuantity: minQuantity,
	}, nil
}

// Create adds a stock item.
func (s *Service) Create(c *fiber.Ctx) error {
	item, err := parseItemForm(c)
	if err == nil {
		_, err = inventorycontroller.Create(s.db, item)
	}

	if err != nil {
		return s.renderList(c, fiber.StatusBadRequest, "Failed to create item: "+err.Error())
	}

	return c.Redirect(Path)
}

// Update modifies a stock item.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	item, err := parseItemForm(c)
	if err == nil {
		item.ID = id
		_, err = inventorycontroller.Update(s.db, item)
	}

	if err != nil {
		if errors.Is(err, inventorycontroller.ErrItemNotFound) {
			return c.Redirect(Path)
		}

		return s.renderList(c, fiber.StatusBadRequest, "Failed to update item: "+err.Error())
	}

	return c.Redirect(Path)
}

// Delete removes a stock item and its assignment history.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	if err := inventorycontroller.Delete(s.db, id); err != nil && !errors.Is(err, inventorycontroller.ErrItemNotFound) {
		return s.renderList(c, fiber.StatusBadRequest, "Failed to delete item: "+err.Error())
	}

	return c.Redirect(Path)
}

// Assign hands out stock to a member, decrementing the available quantity.
func (s *Service) Assign(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	userID, err := strconv.ParseUint(c.FormValue("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return s.renderList(c, fiber.StatusBadRequest, "Invalid member identifier")
	}

	quantity, err := strconv.Atoi(c.FormValue("quantity", "1"))
	if err != nil {
		return s.renderList(c, fiber.StatusBadRequest, "Quantity must be a number")
	}

	if _, err := inventorycontroller.AssignToUser(s.db, id, userID, quantity); err != nil {
		msg := "Failed to assign equipment: " + err.Error()
		if errors.Is(err, inventorycontroller.ErrInsufficientStock) {
			msg = "Not enough stock available for this assignment."
		}

		return s.renderList(c, fiber.StatusBadRequest, msg)
	}

	return c.Redirect(Path)
}

// Return takes back an assigned piece of equipment, restoring the stock.
func (s *Service) Return(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect(Path)
	}

	if err := inventorycontroller.Return(s.db, id); err != nil {
		msg := "Failed to return equipment: " + err.Error()
		if errors.Is(err, inventorycontroller.ErrAlreadyReturned) {
			msg = "This equipment was already returned."
		}

		return s.renderList(c, fiber.StatusBadRequest, msg)
	}

	return c.Redirect(Path)
}
