package dto

// LoginRequest payload for dashboard login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserView is the sanitized account representation; the password hash is
// never serialized.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResponse returns the bearer token and the account view.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}
