package config

import (
	"time"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // encryption key for cookies
	Session             Session // session settings
}

// LocalDBAuth holds settings for email/password authentication against the local database.
type LocalDBAuth struct {
	Enabled bool
}

// OIDCAuth holds settings for the OpenID Connect login flow.
// Accounts created through OIDC default to the parent status; staff accounts
// stay in the local database.
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Auth groups the authentication sources.
type Auth struct {
	LocalDB LocalDBAuth
	OIDC    OIDCAuth
}
