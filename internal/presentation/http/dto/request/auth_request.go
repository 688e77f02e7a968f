package request

// LoginRequest represents a counter sign-in. The backend owns the user
// accounts, so only presence is checked here.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TillCredentialsRequest re-authenticates an operator before the till is
// opened or closed.
type TillCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
