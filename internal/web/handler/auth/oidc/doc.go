// Package oidc provides handlers for the OpenID Connect authentication flow.
//
// Parents typically sign in through an external identity provider (Google,
// Keycloak, Azure AD and other OIDC-compliant providers) while staff accounts
// stay in the local database. Accounts created through this flow default to
// the parent status.
//
// The flow includes:
//   - Login initiation with CSRF protection via state tokens
//   - Authorization callback handling with ID token verification
//   - Automatic user creation/update from OIDC claims
//   - Session creation and cookie management
//   - Logout with provider end session support
//
// Example usage:
//
//	// Initialize OIDC handler
//	oidc.Handler.Init(app, cfg, db)
//
//	// Users can then access:
//	// GET  /auth/oidc/login    - Initiate OIDC login flow
//	// GET  /auth/oidc/callback - Handle provider callback
//	// GET  /auth/oidc/logout   - Logout and optionally end provider session
package oidc
