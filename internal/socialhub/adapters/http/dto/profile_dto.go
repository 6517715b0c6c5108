package dto

import "socialhub/internal/socialhub/domain/entities"

// CreateProfileRequest - данные нового профиля.
type CreateProfileRequest struct {
	Platform    string `json:"platform" validate:"required"`
	ProfileURL  string `json:"profile_url" validate:"required"`
	ProfileType string `json:"profile_type" validate:"required"`
}

// ToInput переводит запрос в доменную структуру.
func (r CreateProfileRequest) ToInput() entities.SocialProfileInput {
	return entities.SocialProfileInput{
		Platform:    r.Platform,
		ProfileURL:  r.ProfileURL,
		ProfileType: r.ProfileType,
	}
}

// UpdateProfileRequest - частичное обновление, отсутствующие поля не меняются.
type UpdateProfileRequest struct {
	Platform    *string `json:"platform"`
	ProfileURL  *string `json:"profile_url"`
	ProfileType *string `json:"profile_type"`
}

// ToPatch переводит запрос в доменную структуру.
func (r UpdateProfileRequest) ToPatch() entities.SocialProfilePatch {
	return entities.SocialProfilePatch{
		Platform:    r.Platform,
		ProfileURL:  r.ProfileURL,
		ProfileType: r.ProfileType,
	}
}

// ProfileResponse - представление профиля.
type ProfileResponse struct {
	ID          int64  `json:"id"`
	Platform    string `json:"platform"`
	ProfileURL  string `json:"profile_url"`
	ProfileType string `json:"profile_type"`
}

// NewProfileResponse строит ответ из сущности.
func NewProfileResponse(p *entities.SocialProfile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Platform:    p.Platform,
		ProfileURL:  p.ProfileURL,
		ProfileType: p.ProfileType,
	}
}

// NewProfileListResponse строит список, пустой список остается массивом.
func NewProfileListResponse(profiles []*entities.SocialProfile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, NewProfileResponse(p))
	}
	return out
}
