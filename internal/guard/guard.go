// Package guard decides whether a visitor may enter a protected route.
package guard

import "github.com/utafrali/StorefrontGo/internal/domain"

// Action is the guard's verdict for a navigation attempt.
type Action string

const (
	// ActionWait means the session is still restoring; the caller should
	// hold the navigation and ask again, never treating the visitor as
	// anonymous in the meantime.
	ActionWait Action = "wait"

	// ActionRedirect means the visitor must authenticate first.
	ActionRedirect Action = "redirect"

	// ActionAllow admits the visitor.
	ActionAllow Action = "allow"
)

// Decision is the outcome of a guard check. On a redirect, ReturnTo carries
// the originally requested route so the login flow can send the visitor back
// where they were headed.
type Decision struct {
	Action     Action `json:"action"`
	RedirectTo string `json:"redirect_to,omitempty"`
	ReturnTo   string `json:"return_to,omitempty"`
}

// Guard gates protected routes on the session state.
type Guard struct {
	loginPath string
}

// New creates a guard that redirects unauthenticated visitors to loginPath.
func New(loginPath string) *Guard {
	return &Guard{loginPath: loginPath}
}

// Decide checks whether the session admits the visitor to the target route.
// The loading check comes first: an undecided session must never bounce a
// visitor who is actually signed in.
func (g *Guard) Decide(session domain.Session, target string) Decision {
	if session.IsLoading {
		return Decision{Action: ActionWait}
	}
	if !session.IsAuthenticated {
		return Decision{
			Action:     ActionRedirect,
			RedirectTo: g.loginPath,
			ReturnTo:   target,
		}
	}
	return Decision{Action: ActionAllow}
}
