// Package auth holds the console's notion of who is logged in. The bearer
// token and the user claims live together in the cookie session under the
// keys "token" and "user"; nothing else reads those keys directly.
package auth

import (
	"errors"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"netcafe/models"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

// Claims is the part of the login response the console keeps.
type Claims struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// Principal is the authenticated caller of a console request.
type Principal struct {
	Token  string
	Claims Claims
}

func (p Principal) IsAdmin() bool { return p.Claims.Role == models.RoleAdmin }

// Decision is the outcome of the route guard.
type Decision int

const (
	Allow Decision = iota
	// RedirectLogin: nobody is logged in, or the stored claims are unreadable.
	RedirectLogin
	// RedirectHome: logged in, but the role may not see this route.
	RedirectHome
)

// Verdict carries the decision plus what the caller must do about storage.
type Verdict struct {
	Decision  Decision
	Principal Principal
	// Clear is set when the stored pair is corrupt and must be erased.
	Clear bool
}

var errCorruptClaims = errors.New("stored user claims are corrupt")

// Check decides whether the stored token/user pair may open a route that
// requires one of roles. An empty roles list admits any authenticated user.
func Check(token, userJSON string, roles ...models.Role) Verdict {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(userJSON) == "" {
		return Verdict{Decision: RedirectLogin}
	}
	claims, err := decodeClaims(userJSON)
	if err != nil {
		return Verdict{Decision: RedirectLogin, Clear: true}
	}
	p := Principal{Token: token, Claims: claims}
	if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
		return Verdict{Decision: RedirectHome, Principal: p}
	}
	return Verdict{Decision: Allow, Principal: p}
}

func decodeClaims(userJSON string) (Claims, error) {
	var c Claims
	if err := json.Unmarshal([]byte(userJSON), &c); err != nil {
		return Claims{}, errCorruptClaims
	}
	if c.ID == 0 || c.Username == "" {
		return Claims{}, errCorruptClaims
	}
	return c, nil
}

// LandingPath is where a freshly logged-in user goes.
func LandingPath(role models.Role) string {
	if role == models.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/client/dashboard"
}
