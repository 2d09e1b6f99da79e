package domain

type UserRole string

const (
	UserRoleCustomer  UserRole = "CUSTOMER"
	UserRoleOwner     UserRole = "OWNER"
	UserRoleModerator UserRole = "MODERATOR"
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleOperator  UserRole = "OPERATOR"
)

// IsStaff reports whether the role may act on reservations it does not own.
func (r UserRole) IsStaff() bool {
	return r == UserRoleAdmin || r == UserRoleModerator
}

type User struct {
	ID          int32    `json:"id"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
	Name        string   `json:"name"`
	Role        UserRole `json:"role"`
	CreatedOn   string   `json:"created_on"`
}

// Actor is the authenticated user performing an action.
type Actor struct {
	UserID int32
	Role   UserRole
}
