package dto

import "strings"

// CredentialsForm carries the username and password of the signup and login forms
type CredentialsForm struct {
	Username string `form:"username" validate:"required,max=50"`
	Password string `form:"password" validate:"required"`
}

// Normalize trims the username; passwords are taken verbatim
func (f *CredentialsForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
}

// UserListResponse is the JSON body of the user listing endpoint
type UserListResponse struct {
	Status  string   `json:"status"`
	Users   []string `json:"users,omitempty"`
	Message string   `json:"message"`
}
