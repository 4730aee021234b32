package domain

import "time"

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type CircleType string

const (
	CircleApartment CircleType = "APARTMENT"
	CircleHotel     CircleType = "HOTEL"
	CircleOffice    CircleType = "OFFICE"
)

func ParseCircleType(s string) (CircleType, bool) {
	switch CircleType(s) {
	case CircleApartment, CircleHotel, CircleOffice:
		return CircleType(s), true
	default:
		return "", false
	}
}

type Circle struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      CircleType `json:"type"`
	Features  []string   `json:"features,omitempty"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type Role string

const (
	RoleResident    Role = "RESIDENT"
	RoleAdmin       Role = "ADMIN"
	RoleSecurity    Role = "SECURITY"
	RoleMaintenance Role = "MAINTENANCE"
	RoleStaff       Role = "STAFF"
	RoleSuperadmin  Role = "SUPERADMIN"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleResident, RoleAdmin, RoleSecurity, RoleMaintenance, RoleStaff, RoleSuperadmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Administrative reports whether the role counts as administrative for
// its circle. Every role except RESIDENT does.
func (r Role) Administrative() bool {
	return r != RoleResident
}

type Membership struct {
	ID        string    `json:"id"`
	CircleID  string    `json:"circle_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	Unit      string    `json:"unit,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

type Invite struct {
	ID        string    `json:"id"`
	CircleID  string    `json:"circle_id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
