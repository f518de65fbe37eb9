package user

import (
	"net/mail"
	"strings"
)

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *CreateUserRequest) Validate() []string {
	var problems []string
	if r.Name == "" {
		problems = append(problems, "name is required")
	}
	if r.Email == "" {
		problems = append(problems, "email is required")
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		problems = append(problems, "email is not a valid address")
	}
	return problems
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
}

func (r *UpdateUserRequest) Validate() []string {
	var problems []string
	if r.Name == nil && r.Email == nil {
		return []string{"nothing to update"}
	}
	if r.Name != nil && *r.Name == "" {
		problems = append(problems, "name cannot be empty")
	}
	if r.Email != nil {
		if _, err := mail.ParseAddress(*r.Email); err != nil {
			problems = append(problems, "email is not a valid address")
		}
	}
	return problems
}
