package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Principal is the identity and role snapshot resolved once per request
// from a validated access token. Missing, malformed or expired tokens all
// resolve to Anonymous; they are never an error by themselves.
type Principal struct {
	UserID        uint
	Email         string
	IsStudent     bool
	IsTeacher     bool
	IsStaff       bool
	IsSuperuser   bool
	Authenticated bool
}

// Anonymous is the principal of an unauthenticated request.
var Anonymous = Principal{}

// Predicate is a boolean authorization check over a principal. Predicates
// attached to one route compose with logical AND.
type Predicate func(Principal) bool

// AllowAny admits every caller, anonymous included.
func AllowAny(Principal) bool { return true }

// IsAuthenticated admits any caller with a valid access token.
func IsAuthenticated(p Principal) bool { return p.Authenticated }

// IsStudent admits callers whose student flag was set at token issuance.
func IsStudent(p Principal) bool { return p.Authenticated && p.IsStudent }

// IsTeacher admits callers whose teacher flag was set at token issuance.
// Teacher does not imply student or admin.
func IsTeacher(p Principal) bool { return p.Authenticated && p.IsTeacher }

// IsAdmin admits staff and superusers. It gates user management only and
// is never implied by the teacher flag.
func IsAdmin(p Principal) bool { return p.Authenticated && (p.IsStaff || p.IsSuperuser) }

// FromClaims builds a principal from decoded claims. Only access-kind
// tokens authenticate; a refresh token presented as a bearer credential
// resolves to Anonymous.
func FromClaims(claims *Claims) Principal {
	if claims == nil || claims.Kind != TokenKindAccess {
		return Anonymous
	}
	return Principal{
		UserID:        claims.UserID,
		Email:         claims.Email,
		IsStudent:     claims.IsStudent,
		IsTeacher:     claims.IsTeacher,
		IsStaff:       claims.IsStaff,
		IsSuperuser:   claims.IsSuperuser,
		Authenticated: true,
	}
}

// PrincipalFrom resolves the request principal from the token the JWT
// middleware stored on the context, if any.
func PrincipalFrom(c echo.Context) Principal {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return Anonymous
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Anonymous
	}
	return FromClaims(claims)
}

// Guard evaluates route predicates against the request principal.
type Guard struct {
	// strictForbidden switches the denial status for authenticated callers
	// from the historical 401 to a conventional 403.
	strictForbidden bool
}

// NewGuard creates a guard with the configured denial behavior.
func NewGuard(strictForbidden bool) *Guard {
	return &Guard{strictForbidden: strictForbidden}
}

// Require returns middleware denying the request unless every predicate
// admits the principal. Authentication is resolved before any predicate
// runs; predicate order is irrelevant.
func (g *Guard) Require(preds ...Predicate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			for _, pred := range preds {
				if pred(p) {
					continue
				}
				if g.strictForbidden && p.Authenticated {
					return echo.NewHTTPError(http.StatusForbidden, "permission denied")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided")
			}
			return next(c)
		}
	}
}
