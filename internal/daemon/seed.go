package daemon

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/permission"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

// defaultAdminEmail is the bootstrap administrator account.
const defaultAdminEmail = "admin@admin.com"

// defaultEvaluationTypes seeded on first startup.
var defaultEvaluationTypes = []models.EvaluationType{
	{Name: "Comportement", MinRating: 1, MaxRating: 5, Description: "Évaluation du comportement général", Active: true},
	{Name: "Participation", MinRating: 1, MaxRating: 5, Description: "Niveau de participation aux activités", Active: true},
	{Name: "Leadership", MinRating: 1, MaxRating: 5, Description: "Capacités de leadership", Active: true},
	{Name: "Technique", MinRating: 1, MaxRating: 5, Description: "Compétences techniques", Active: true},
	{Name: "Esprit d'équipe", MinRating: 1, MaxRating: 5, Description: "Capacité à travailler en équipe", Active: true},
}

// defaultBadges is the starter badge catalog.
var defaultBadges = []models.Badge{
	{Name: "Recrue", Description: "Premiers pas dans l'unité", IconName: "star", PointsRequired: 0},
	{Name: "Cadet confirmé", Description: "Participation régulière", IconName: "medal", PointsRequired: 100},
	{Name: "Cadet émérite", Description: "Engagement soutenu", IconName: "trophy", PointsRequired: 400},
	{Name: "Vétéran", Description: "Pilier de l'unité", IconName: "shield", PointsRequired: 900},
}

// Seed inserts the default permissions, roles, evaluation types, badge
// catalog and administrator account. Every insert is insert-if-absent, so
// running it on each startup never duplicates rows.
func Seed(db *gorm.DB) error {
	if err := seedPermissions(db); err != nil {
		return err
	}
	if err := seedRoles(db); err != nil {
		return err
	}
	if err := seedEvaluationTypes(db); err != nil {
		return err
	}
	if err := seedBadges(db); err != nil {
		return err
	}

	return seedAdminUser(db)
}

func seedPermissions(db *gorm.DB) error {
	// deterministic insert order keeps repeated runs comparable in logs
	names := make([]string, 0, len(auth.DefaultPermissions))
	for name := range auth.DefaultPermissions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := permission.Ensure(db, name, auth.DefaultPermissions[name]); err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", name, err)
		}
	}

	return nil
}

func seedRoles(db *gorm.DB) error {
	roleNames := make([]string, 0, len(auth.DefaultRolePermissions))
	for name := range auth.DefaultRolePermissions {
		roleNames = append(roleNames, name)
	}
	sort.Strings(roleNames)

	for _, roleName := range roleNames {
		role := models.Role{Name: roleName, Description: auth.DefaultRoleDescriptions[roleName]}

		var created bool

		err := db.Where("name = ?", roleName).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err = db.Create(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", roleName, err)
			}

			created = true
		} else if err != nil {
			return fmt.Errorf("failed to look up role %s: %w", roleName, err)
		}

		// bindings only for freshly created roles; admins may have
		// customized existing ones
		if !created {
			continue
		}

		for _, permName := range auth.DefaultRolePermissions[roleName] {
			perm, err := permission.Get(db, permName)
			if err != nil {
				return fmt.Errorf("failed to resolve permission %s: %w", permName, err)
			}

			binding := models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}
			if err := db.Where(&binding).FirstOrCreate(&binding).Error; err != nil {
				return fmt.Errorf("failed to bind %s to %s: %w", permName, roleName, err)
			}
		}
	}

	return nil
}

func seedEvaluationTypes(db *gorm.DB) error {
	for _, evalType := range defaultEvaluationTypes {
		record := evalType
		if err := db.Where("name = ?", record.Name).FirstOrCreate(&record).Error; err != nil {
			return fmt.Errorf("failed to seed evaluation type %s: %w", record.Name, err)
		}
	}

	return nil
}

func seedBadges(db *gorm.DB) error {
	for _, badge := range defaultBadges {
		record := badge
		if err := db.Where("name = ?", record.Name).FirstOrCreate(&record).Error; err != nil {
			return fmt.Errorf("failed to seed badge %s: %w", record.Name, err)
		}
	}

	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var admin models.User

	err := db.Where("email = ?", defaultAdminEmail).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	admin = models.User{
		Active:     true,
		Email:      defaultAdminEmail,
		Password:   models.HashPassword("admin123"),
		Name:       "Administrateur",
		Status:     models.StatusAdministration,
		AuthSource: models.AuthSourceLocal,
	}

	if err = db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	var adminRole models.Role
	if err = db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return fmt.Errorf("failed to resolve admin role: %w", err)
	}

	if err = db.Create(&models.UserRole{UserID: admin.ID, RoleID: adminRole.ID}).Error; err != nil {
		return fmt.Errorf("failed to assign admin role: %w", err)
	}

	log.Warn().Str("email", defaultAdminEmail).
		Msg("created default administrator account, change its password")

	return nil
}
