package dto

type RegisterRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=1"`
	Designation string `json:"designation" validate:"max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type BulkActionRequest struct {
	Action  string   `json:"action" validate:"required"`
	UserIDs []string `json:"userIds" validate:"required,min=1"`
}
