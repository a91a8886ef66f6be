package dto

import "github.com/google/uuid"

// UserResponse is the public view of a user. The password hash is never
// part of any response shape.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Login string    `json:"login"`
	Email string    `json:"email,omitempty"`
	Role  int       `json:"role"`
}

type UpdateUserRequest struct {
	Login    *string `json:"login"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
	Role     *int    `json:"role"`
}
