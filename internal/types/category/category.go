package category

import (
	"strings"
	"time"
)

type Category struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Color     *string   `json:"color" db:"color"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CreateCategoryRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (r *CreateCategoryRequest) Validate() []string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func (r *UpdateCategoryRequest) Validate() []string {
	if r.Name == nil && r.Color == nil {
		return []string{"nothing to update"}
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return []string{"name cannot be empty"}
		}
		r.Name = &name
	}
	return nil
}
