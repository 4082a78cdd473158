package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile models the account record returned by the platform. Fields the
// backend omits stay zero-valued; the client never fabricates them.
type Profile struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role,omitempty"`
}

// ProfileUpdate is a partial profile edit. Nil fields are left untouched by
// Merge; Role is intentionally absent — role changes only arrive via login.
type ProfileUpdate struct {
	Username  *string
	Email     *string
	Phone     *string
	AvatarURL *string
}

// Merge applies the non-nil fields of u onto a copy of p.
func (p Profile) Merge(u ProfileUpdate) Profile {
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	return p
}

// Session is the authenticated-identity state held for the current process
// lifetime. Authenticated is true iff both Token and User are present.
// Loading is true only while the initial restore attempt is running.
type Session struct {
	Authenticated bool     `json:"authenticated"`
	User          *Profile `json:"user,omitempty"`
	Token         string   `json:"-"`
	Role          string   `json:"role,omitempty"`
	Loading       bool     `json:"loading"`
}
