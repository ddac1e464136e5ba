package profiles

// UpdateProfilePayload represents the request body for updating the caller's
// own profile. Absent fields are untouched; an explicit empty string clears
// the field.
type UpdateProfilePayload struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,max=1000"`
}
