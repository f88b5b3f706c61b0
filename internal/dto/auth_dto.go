package dto

// Data Transfer Objects for the signup and token endpoints

// SignupRequest: payload for registration; the response echoes it back.
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse: echoed (username, email) pair after a successful signup
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload exchanging a confirmation code for an access token
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: bearer access token bound to the user's identity
type TokenResponse struct {
	Token string `json:"token"`
}
