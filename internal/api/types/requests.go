package types

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=128"`
}

// UpdateUserRequest fields omitted from the body stay nil and are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=100"`
	Email    *string `json:"email" validate:"omitnil,min=1,max=100"`
	Password *string `json:"password" validate:"omitnil,min=1,max=128"`
}
