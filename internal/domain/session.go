package domain

// User is the authenticated customer profile as reported by the commerce
// backend. Fields mirror the backend's profile payload.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// FullName joins the first and last name, falling back to the email when both
// are empty.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

// Session is the client's current belief about the user's identity.
//
// IsLoading is true only while session restoration from persisted credentials
// is still in progress. Consumers that gate access on authentication must
// treat a loading session as undecided rather than anonymous.
type Session struct {
	IsAuthenticated bool  `json:"is_authenticated"`
	IsLoading       bool  `json:"is_loading"`
	User            *User `json:"user,omitempty"`
}

// Anonymous returns a settled, unauthenticated session.
func Anonymous() Session {
	return Session{}
}

// Authenticated returns a settled session for the given user.
func Authenticated(u User) Session {
	return Session{IsAuthenticated: true, User: &u}
}
