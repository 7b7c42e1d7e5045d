package request

type SignUpRequest struct {
	Name     string `json:"name,omitempty" validate:"max=100"`
	Email    string `json:"email,omitempty" validate:"required,max=255"`
	Password string `json:"password,omitempty" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,max=255"`
	Password string `json:"password,omitempty" validate:"required,max=72"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token,omitempty" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password,omitempty" validate:"required,max=72"`
	NewPassword     string `json:"new_password,omitempty" validate:"required,max=72"`
}

type AssignRoleRequest struct {
	Role string `json:"role,omitempty" validate:"required,max=100"`
}

type AddClaimRequest struct {
	Type  string `json:"type,omitempty" validate:"required,max=100"`
	Value string `json:"value,omitempty" validate:"required,max=255"`
}
