package params

import "github.com/google/uuid"

type AuthResponse struct {
	Token string `json:"token"`
	User  struct {
		ID        uuid.UUID `json:"id"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		Email     string    `json:"email"`
	} `json:"user"`
}
