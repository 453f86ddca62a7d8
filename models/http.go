package models

// RegisterRequest is the body of POST /auth/register.
// WrappedContentKey is produced client-side (envelope-protected), so the
// server never observes the plaintext content key.
//
// WalletAddress optionally binds a wallet to the new account; it must be
// accompanied by a personal_sign signature over the challenge message that
// recovers to the same address, otherwise registration is rejected.
type RegisterRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=12"`
	FirstName         string `json:"firstName" validate:"required,min=2,max=100"`
	LastName          string `json:"lastName" validate:"required,min=2,max=100"`
	WrappedContentKey string `json:"wrappedContentKey" validate:"required"`
	WalletAddress     string `json:"walletAddress,omitempty" validate:"omitempty,eth_addr"`
	WalletSignature   string `json:"walletSignature,omitempty" validate:"required_with=WalletAddress"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// WalletLoginRequest is the body of POST /auth/wallet. Signature is the
// personal_sign output over the fixed key-derivation message.
type WalletLoginRequest struct {
	Address   string `json:"address" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// RefreshRequest is the body of POST /auth/refresh. The token may instead
// arrive via the refreshToken cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is the payload returned by register, login, and wallet login.
type AuthResponse struct {
	Account      Account `json:"account"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
}

// APIError is the error object embedded in failed API responses.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the uniform envelope for every JSON response.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Message string    `json:"message,omitempty"`
}
