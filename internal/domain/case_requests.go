package domain

type CreateCaseRequest struct {
	Location string   `json:"location" validate:"required,min=3,max=255"`
	Lat      *float64 `json:"latitude" validate:"omitempty,lat"`
	Lng      *float64 `json:"longitude" validate:"omitempty,lng"`
	Needs    []Need   `json:"needs" validate:"required,min=1,dive,need"`
	Photos   []string `json:"photos" validate:"omitempty,dive,max=512"`
	Videos   []string `json:"videos" validate:"omitempty,dive,max=512"`
}

// UpdateCaseRequest carries a partial update: nil fields are left untouched.
type UpdateCaseRequest struct {
	Location *string  `json:"location" validate:"omitempty,min=3,max=255"`
	Lat      *float64 `json:"latitude" validate:"omitempty,lat"`
	Lng      *float64 `json:"longitude" validate:"omitempty,lng"`
	Needs    []Need   `json:"needs" validate:"omitempty,min=1,dive,need"`
	Photos   []string `json:"photos" validate:"omitempty,dive,max=512"`
	Videos   []string `json:"videos" validate:"omitempty,dive,max=512"`
}

type ResolveCaseRequest struct {
	Notes  string   `json:"resolution_notes" validate:"required,min=3"`
	Photos []string `json:"photos" validate:"omitempty,dive,max=512"`
	Videos []string `json:"videos" validate:"omitempty,dive,max=512"`
	PDFs   []string `json:"pdfs" validate:"omitempty,dive,max=512"`
}

type RemoveMediaRequest struct {
	Type MediaKind `json:"type" validate:"required,media_kind"`
	URL  string    `json:"url" validate:"required,max=512"`
}
