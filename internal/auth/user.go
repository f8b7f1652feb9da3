package auth

import "time"

// Role represents a user's access level over the fleet.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleFleetManager Role = "fleet_manager"
	RoleOperator     Role = "operator"
	RoleViewer       Role = "viewer"
)

var roleRank = map[Role]int{
	RoleViewer:       1,
	RoleOperator:     2,
	RoleFleetManager: 3,
	RoleAdmin:        4,
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	_, ok := roleRank[role]
	return ok
}

// AtLeast reports whether the role grants everything other grants.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// CanRecordOperations reports whether the role may create fuel and
// mileage records.
func (r Role) CanRecordOperations() bool { return r.AtLeast(RoleOperator) }

// CanManageVehicles reports whether the role may register vehicles and
// drive lifecycle transitions.
func (r Role) CanManageVehicles() bool { return r.AtLeast(RoleFleetManager) }

// User represents a user in the system
type User struct {
	ID           string     `bson:"_id" json:"id"`
	Username     string     `bson:"username" json:"username"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password_hash" json:"-"`
	Role         Role       `bson:"role" json:"role"`
	FirstName    string     `bson:"first_name" json:"first_name"`
	LastName     string     `bson:"last_name" json:"last_name"`
	IsActive     bool       `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}
