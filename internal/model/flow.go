package model

type Flow struct {
	Base
	Name string `json:"name" db:"name"`
}

type CreateFlowInput struct {
	Name      string  `json:"name" binding:"required"`
	CreatedBy string  `json:"-"`
	UpdatedBy *string `json:"-"`
}

type UpdateFlowInput struct {
	Name      *string `json:"name" binding:"omitempty,min=1"`
	UpdatedBy *string `json:"-"`
}

type Location struct {
	Base
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
}

type CreateLocationInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	CreatedBy   string  `json:"-"`
	UpdatedBy   *string `json:"-"`
}

type UpdateLocationInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	UpdatedBy   *string `json:"-"`
}
