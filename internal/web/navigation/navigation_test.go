package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Test Page", "section1", "page1")

	assert.Equal(t, "Test Page", ctx.PageTitle)
	assert.Equal(t, "section1", ctx.ActiveSection)
	assert.Equal(t, "page1", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Test Page", "section1", "page1").
		AddBreadcrumb("Accueil", "/", false).
		AddBreadcrumb("Activités", "/activity", false).
		AddBreadcrumb("Détail", "/activity/1", true)

	assert.Len(t, ctx.Breadcrumbs, 3)
	assert.Equal(t, "Accueil", ctx.Breadcrumbs[0].Title)
	assert.Equal(t, "Activités", ctx.Breadcrumbs[1].Title)
	assert.Equal(t, "Détail", ctx.Breadcrumbs[2].Title)
	assert.True(t, ctx.Breadcrumbs[2].Active)
	assert.False(t, ctx.Breadcrumbs[0].Active)
}

func TestContext_IsActive(t *testing.T) {
	ctx := NewContext("Test Page", "admin", "user")

	assert.True(t, ctx.IsActive("admin", "user"))
	assert.False(t, ctx.IsActive("dashboard", "user"))
	assert.False(t, ctx.IsActive("admin", "role"))
	assert.False(t, ctx.IsActive("dashboard", "main"))
}

func TestContext_IsSectionActive(t *testing.T) {
	ctx := NewContext("Test Page", "admin", "user")

	assert.True(t, ctx.IsSectionActive("admin"))
	assert.False(t, ctx.IsSectionActive("dashboard"))
}

func TestVisibleMenu(t *testing.T) {
	tests := []struct {
		name        string
		permissions []string
		wantTitles  []string
	}{
		{
			name:        "no permissions sees public entries only",
			permissions: nil,
			wantTitles:  []string{"Tableau de bord", "Progression"},
		},
		{
			name:        "cadet sees activities",
			permissions: []string{auth.PermScanQRCodes, auth.PermViewActivities},
			wantTitles:  []string{"Tableau de bord", "Activités", "Progression"},
		},
		{
			name:        "inventory manager sees inventory",
			permissions: []string{auth.PermManageInventory},
			wantTitles:  []string{"Tableau de bord", "Progression", "Inventaire"},
		},
		{
			name: "user manager sees admin entries",
			permissions: []string{
				auth.PermManageUsers,
			},
			wantTitles: []string{
				"Tableau de bord", "Progression", "Membres", "Badges", "Types d'évaluation",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible := VisibleMenu(tt.permissions)

			titles := make([]string, 0, len(visible))
			for _, item := range visible {
				titles = append(titles, item.Title)
			}

			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}
