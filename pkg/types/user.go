package types

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserInfo is the identity supplied by the session provider for the caller.
type UserInfo struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}
