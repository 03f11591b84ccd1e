package dto

type SignInRequest struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" validate:"notblank"`
}

type JWTAuthenticationResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
