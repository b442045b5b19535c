package model

// UserProfile is the record the identity provider yields at login. The
// core stores it verbatim and treats it as opaque.
type UserProfile struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}
