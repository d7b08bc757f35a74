package auth

// CredentialsRequest is the body of POST /signup and POST /login
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=1024"`
}
