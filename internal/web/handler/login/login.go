// Package login provides the login page and the local authentication flow.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/auth"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/handler"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"

	authTypeLocal = "local"
	authTypeOIDC  = "oidc"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	localAuth *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.localAuth = auth.NewLocalProvider(db)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, s.viewData(""))
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var form struct {
		Email    string `form:"email"`
		Password string `form:"password"`
		AuthType string `form:"auth_type"`
	}

	if err := c.BodyParser(&form); err != nil {
		return c.Render(TemplateName, s.viewData(ErrInvalidFormData.Error()))
	}

	authType, err := s.pickAuthType(form.AuthType)
	if err != nil {
		return c.Render(TemplateName, s.viewData(err.Error()))
	}

	// OIDC logins go through the provider redirect flow
	if authType == authTypeOIDC {
		return c.Redirect("/auth/oidc/login")
	}

	user, err := s.authenticate(form.Email, form.Password)
	if err != nil {
		return c.Render(TemplateName, s.viewData(err.Error()))
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return c.Render(TemplateName, s.viewData("Internal server error"))
	}

	userSession := &session.Data{User: *user}
	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Render(TemplateName, s.viewData("Internal server error"))
	}

	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Str("email", user.Email).Msg("user logged in")

	return c.Redirect("/dashboard")
}

// pickAuthType validates the requested auth type against the enabled sources,
// falling back to the first enabled source when none is requested.
func (s *Service) pickAuthType(requested string) (string, error) {
	switch requested {
	case authTypeLocal:
		if !s.cfg.Auth.LocalDB.Enabled {
			return "", ErrLocalAuthDisabled
		}

		return authTypeLocal, nil
	case authTypeOIDC:
		if !s.cfg.Auth.OIDC.Enabled {
			return "", ErrInvalidAuthMethod
		}

		return authTypeOIDC, nil
	case "":
		if s.cfg.Auth.LocalDB.Enabled {
			return authTypeLocal, nil
		}

		if s.cfg.Auth.OIDC.Enabled {
			return authTypeOIDC, nil
		}

		return "", ErrNoAuthMethod
	default:
		return "", ErrInvalidAuthMethod
	}
}

// authenticate runs local email/password authentication, mapping provider
// errors to the messages rendered on the login page.
func (s *Service) authenticate(email, password string) (*models.User, error) {
	user, err := s.localAuth.Authenticate(email, password)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return nil, ErrAccountDisabled
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return nil, ErrInvalidCredentials
	default:
		log.Error().Err(err).Msg("local authentication failed")

		return nil, ErrInvalidCredentials
	}
}

func (s *Service) viewData(errMsg string) fiber.Map {
	data := fiber.Map{
		"Title":           s.cfg.Title,
		"local_enabled":   s.cfg.Auth.LocalDB.Enabled,
		"oidc_enabled":    s.cfg.Auth.OIDC.Enabled,
		"oidc_login_path": "/auth/oidc/login",
	}

	if errMsg != "" {
		data["error"] = errMsg
	}

	return data
}
