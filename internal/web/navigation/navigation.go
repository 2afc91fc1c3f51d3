// Package navigation provides utilities for managing navigation state,
// breadcrumbs and the permission-filtered sidebar menu.
package navigation

import "github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem represents a sidebar entry. Items whose Permissions list is empty
// are visible to every authenticated user; otherwise any one of the listed
// permissions makes the entry visible.
type MenuItem struct {
	Title       string
	URL         string
	Icon        string
	Section     string
	Permissions []string
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// menu is the full sidebar, filtered per user by VisibleMenu.
var menu = []MenuItem{
	{Title: "Tableau de bord", URL: "/dashboard", Icon: "home", Section: "dashboard"},
	{Title: "Activités", URL: "/activity", Icon: "calendar", Section: "activity",
		Permissions: []string{auth.PermViewActivities, auth.PermManageActivities}},
	{Title: "Progression", URL: "/progression", Icon: "chart", Section: "progression"},
	{Title: "Inventaire", URL: "/inventory", Icon: "box", Section: "inventory",
		Permissions: []string{auth.PermManageInventory}},
	{Title: "Membres", URL: "/admin/user", Icon: "users", Section: "admin",
		Permissions: []string{auth.PermManageUsers}},
	{Title: "Rôles", URL: "/admin/role", Icon: "lock", Section: "admin",
		Permissions: []string{auth.PermManageRoles}},
	{Title: "Badges", URL: "/admin/badge", Icon: "award", Section: "admin",
		Permissions: []string{auth.PermManageUsers}},
	{Title: "Types d'évaluation", URL: "/admin/evaluationtype", Icon: "clipboard", Section: "admin",
		Permissions: []string{auth.PermManageUsers}},
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// VisibleMenu returns the sidebar entries visible to a user holding the given
// permission set.
func VisibleMenu(userPermissions []string) []MenuItem {
	held := make(map[string]bool, len(userPermissions))
	for _, p := range userPermissions {
		held[p] = true
	}

	visible := make([]MenuItem, 0, len(menu))

	for _, item := range menu {
		if len(item.Permissions) == 0 {
			visible = append(visible, item)
			continue
		}

		for _, p := range item.Permissions {
			if held[p] {
				visible = append(visible, item)
				break
			}
		}
	}

	return visible
}
