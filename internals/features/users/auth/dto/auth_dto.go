package dto

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // user_name atau email
	Password   string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	UserID      string   `json:"user_id"`
	UserName    string   `json:"user_name"`
	Roles       []string `json:"roles"`
}
