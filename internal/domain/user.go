package domain

type Role string

const (
	RoleReporter  Role = "reporter"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleReporter, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated user acting on a request. Authentication is
// owned by the upstream gateway; the API only consumes its identity headers.
// Passed explicitly, never read from ambient state.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) CanResolve() bool {
	return a.Role == RoleVolunteer || a.Role == RoleAdmin
}

func (a Actor) CanModerate() bool {
	return a.Role == RoleAdmin
}

// CanEditCase: the owner may edit their own report, volunteers and admins
// may edit any.
func (a Actor) CanEditCase(c *Case) bool {
	return a.ID == c.ReporterID || a.CanResolve()
}

func (a Actor) CanDeleteCase(c *Case) bool {
	return a.ID == c.ReporterID || a.CanModerate()
}
