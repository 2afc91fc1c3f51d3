// Package auth provides authentication and authorization functionality for the application.
//
// This package implements a Role-Based Access Control (RBAC) system with
// support for two authentication sources:
//   - Local database authentication with Argon2id password hashing
//   - OpenID Connect (OIDC) authentication with external identity providers
//
// # Authentication Providers
//
// LocalProvider handles traditional email/password authentication against
// the local database with secure Argon2id password hashing.
//
// OIDCProvider implements OAuth2/OIDC flows for authentication with external
// identity providers, used primarily for parent accounts.
//
// # Authorization System
//
// The authorization model is purely additive:
//   - Users hold any number of roles
//   - Roles contain a set of permissions
//   - A user has a permission when at least one of their roles carries it
//   - There are no deny rules; absence of a grant means "not permitted"
//
// The member status is a coarse category orthogonal to the role system with
// one exception: accounts with status "administration" implicitly hold every
// permission. That baseline grant is resolved inside the Service so call
// sites never have to test the status themselves.
//
// # Permission Checking
//
// The Service type provides methods for checking user permissions:
//   - HasPermission: Check if user has a specific permission
//   - HasAnyPermission: Check if user has at least one permission from a list
//   - HasAllPermissions: Check if user has all permissions from a list
//   - HasRole: Check if user holds a specific role
//   - GetUserPermissions: Retrieve all permissions for a user
//   - GetUserRoles: Retrieve all roles of a user
//
// Every check is a fresh query against the store; there is no caching, so a
// result always reflects the latest committed data. Store errors propagate
// and no permission is ever granted on error (fail closed).
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequirePermission: Protect routes requiring a specific permission
//   - RequireAnyPermission: Protect routes requiring any of several permissions
//   - RequireAllPermissions: Protect routes requiring all of several permissions
//   - AddPermissionsToLocals: Add user permissions to template context
//
// Example usage:
//
//	// Initialize auth service
//	authService := auth.NewService(db)
//
//	// Check permission in handler
//	hasPermission, err := authService.HasPermission(userID, auth.PermManageUsers)
//
//	// Protect route with middleware
//	app.Get("/admin/users",
//	    auth.RequirePermission(authService, auth.PermManageUsers),
//	    handler,
//	)
package auth
