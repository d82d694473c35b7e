package api

// Request DTOs

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response DTOs

type LoginResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
}

// MessageResponse is the body the API uses for errors and plain acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
