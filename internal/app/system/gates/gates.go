// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, rendering JSON error
// responses when checks fail.
//
// # Three-Tier Authorization Pattern
//
// CapstoneHub uses a three-tier authorization approach:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireRole)
//     Applied in routes.go files for coarse-grained access control.
//     When middleware handles role checking, handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need role checks WITHOUT route-level
//     middleware, or need different role requirements than the route
//     group. Gates render error responses and return user context.
//
//  3. Policy Layer (internal/app/policy/*)
//     Used for resource-specific authorization requiring database
//     lookups. Example: grouppolicy.CanViewGroup checks whether the
//     caller may see a specific group's roster. Policies return
//     (bool, error) - callers handle error rendering.
//
// # Avoiding Redundancy
//
// Don't use gates in handlers that are behind role-specific middleware.
// If routes.go has RequireRole("instructor"), handlers don't need a
// gate. Instead, use authz.UserCtx(r) to get user context without
// re-checking the role.
package gates

import (
	"net/http"

	uierrors "github.com/dalemusser/capstonehub/internal/app/features/errors"
	"github.com/dalemusser/capstonehub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role   string
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated.
// If not authenticated, it renders 401 and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, "sign in required")
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireInstructorOrAdmin ensures the user is authenticated and may
// run instructor operations. If not authenticated, renders 401; if
// authenticated but not instructor or admin, renders 403.
func RequireInstructorOrAdmin(w http.ResponseWriter, r *http.Request, forbiddenMsg string) Result {
	return RequireAnyRole(w, r, forbiddenMsg, "instructor", "admin")
}

// RequireAnyRole ensures the user is authenticated and has one of the
// specified roles. If not authenticated, renders 401; if the role is
// not in the allowed list, renders 403 with forbiddenMsg.
func RequireAnyRole(w http.ResponseWriter, r *http.Request, forbiddenMsg string, allowedRoles ...string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, "sign in required")
		return Result{OK: false}
	}

	for _, allowed := range allowedRoles {
		if role == allowed {
			return Result{Role: role, Name: name, UserID: uid, OK: true}
		}
	}

	uierrors.RenderForbidden(w, forbiddenMsg)
	return Result{OK: false}
}
