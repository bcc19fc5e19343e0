package dto

import "time"

// SettingResponse is one stored key/value pair.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingsRequest upserts the given keys.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings"`
}

// CreateScoreCategoryRequest adds a point-award category.
type CreateScoreCategoryRequest struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// UpdateScoreCategoryRequest changes a category; nil fields are left as is.
type UpdateScoreCategoryRequest struct {
	Name     *string `json:"name"`
	Points   *int    `json:"points"`
	IsActive *bool   `json:"is_active"`
}
