package models

// LoginRequest is the payload for the web-layer login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned on successful login. ExpiresIn is in seconds.
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}
