package auth

// SignupResponse acknowledges a new account
type SignupResponse struct {
	Message string `json:"message"`
}

// LoginResponse confirms the credentials; no session token is issued
type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}
