package domain

import "strings"

// Roles assigned by the backend.
const (
	RoleUser   = "USER"
	RoleMentor = "MENTOR"
	RoleAdmin  = "ADMIN"
)

// User is a registered SkillSwap member. The password is write-only on the
// backend and never appears in responses.
type User struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role,omitempty"`
	Bio       string  `json:"bio,omitempty"`
	AvatarURL string  `json:"avatarUrl,omitempty"`
	Skills    []Skill `json:"skills,omitempty"`
}

// Skill is an entry in the shared skill catalogue.
type Skill struct {
	ID   int64  `json:"id"`
	Name string `json:"skillName"`
}

// DisplayName returns the user's name, falling back to the e-mail address.
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	if u.Email != "" {
		return u.Email
	}
	return "unknown"
}

// IsMentor reports whether the user carries the mentor role.
func (u User) IsMentor() bool {
	return strings.EqualFold(u.Role, RoleMentor)
}

// HasSkill reports whether the user lists a skill with the given ID.
func (u User) HasSkill(id int64) bool {
	for _, s := range u.Skills {
		if s.ID == id {
			return true
		}
	}
	return false
}

// SkillNames returns the user's skill names in catalogue order.
func (u User) SkillNames() []string {
	names := make([]string, 0, len(u.Skills))
	for _, s := range u.Skills {
		names = append(names, s.Name)
	}
	return names
}

// Matches reports whether term is a case-insensitive substring of the user's
// name or of any of their skills. An empty term matches everyone.
func (u User) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(u.Name), term) {
		return true
	}
	for _, s := range u.Skills {
		if strings.Contains(strings.ToLower(s.Name), term) {
			return true
		}
	}
	return false
}
