package shop

// User is the authenticated account. It is replaced wholesale, never mutated.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials are submitted by the login form.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=1,max=72"`
}

// Registration is submitted by the registration form.
type Registration struct {
	Name     string `validate:"required,min=2,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
}

// AuthStatus enumerates the authentication state machine.
type AuthStatus int

const (
	Anonymous AuthStatus = iota
	Authenticated
)

// String returns the lowercase state name.
func (s AuthStatus) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// AuthState is an immutable snapshot of the authentication store.
type AuthState struct {
	Status  AuthStatus
	User    *User
	Version uint64
}

// Clone returns a copy of s with its own User.
func (s AuthState) Clone() AuthState {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// IsAuthenticated reports whether a user is signed in.
func (s AuthState) IsAuthenticated() bool {
	return s.Status == Authenticated && s.User != nil
}

// DisplayName returns the user's name, or an empty string when anonymous.
func (s AuthState) DisplayName() string {
	if !s.IsAuthenticated() {
		return ""
	}
	if s.User.Name != "" {
		return s.User.Name
	}
	return s.User.Email
}
