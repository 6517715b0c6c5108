package entities

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Ошибки домена профилей.
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrOwnerNotFound      = errors.New("profile owner not found")
	ErrIntegrityViolation = errors.New("integrity constraint violated")
	ErrInvalidProfileType = errors.New("invalid profile type")
	ErrPlatformTooShort   = errors.New("platform must contain at least 3 characters")
	ErrInvalidProfileURL  = errors.New("profile URL must be an absolute http or https URL")
)

// MinPlatformLength - минимальная длина названия платформы после обрезки пробелов.
const MinPlatformLength = 3

// ProfileTypes - допустимые типы профиля.
var ProfileTypes = []string{
	"personal", "business", "creator", "brand", "organization", "public_figure",
	"group", "page", "channel", "nonprofit", "artist", "support", "event",
	"media", "forum", "educational", "professional",
}

var profileTypeSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ProfileTypes))
	for _, t := range ProfileTypes {
		set[t] = struct{}{}
	}
	return set
}()

// SocialProfile - ссылка пользователя на внешнюю соцсеть.
type SocialProfile struct {
	ID          int64
	UserID      int64
	Platform    string
	ProfileURL  string
	ProfileType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SocialProfileInput - данные для создания профиля.
type SocialProfileInput struct {
	Platform    string
	ProfileURL  string
	ProfileType string
}

// SocialProfilePatch - частичное обновление. nil означает "не менять".
type SocialProfilePatch struct {
	Platform    *string
	ProfileURL  *string
	ProfileType *string
}

// IsEmpty сообщает, что в патче нет ни одного поля.
func (p SocialProfilePatch) IsEmpty() bool {
	return p.Platform == nil && p.ProfileURL == nil && p.ProfileType == nil
}

// Normalize приводит входные данные к каноническому виду.
func (in SocialProfileInput) Normalize() (SocialProfileInput, error) {
	platform, err := NormalizePlatform(in.Platform)
	if err != nil {
		return in, err
	}
	profileURL, err := NormalizeProfileURL(in.ProfileURL)
	if err != nil {
		return in, err
	}
	profileType, err := NormalizeProfileType(in.ProfileType)
	if err != nil {
		return in, err
	}
	return SocialProfileInput{Platform: platform, ProfileURL: profileURL, ProfileType: profileType}, nil
}

// Apply применяет патч к копии профиля с той же нормализацией, что и при создании.
func (p SocialProfilePatch) Apply(profile SocialProfile) (SocialProfile, error) {
	if p.Platform != nil {
		v, err := NormalizePlatform(*p.Platform)
		if err != nil {
			return profile, err
		}
		profile.Platform = v
	}
	if p.ProfileURL != nil {
		v, err := NormalizeProfileURL(*p.ProfileURL)
		if err != nil {
			return profile, err
		}
		profile.ProfileURL = v
	}
	if p.ProfileType != nil {
		v, err := NormalizeProfileType(*p.ProfileType)
		if err != nil {
			return profile, err
		}
		profile.ProfileType = v
	}
	return profile, nil
}

// NormalizePlatform обрезает пробелы и делает первую букву заглавной.
// Остальные символы не меняются: "linkedIn" -> "LinkedIn".
func NormalizePlatform(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if utf8.RuneCountInString(s) < MinPlatformLength {
		return "", ErrPlatformTooShort
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:], nil
}

// NormalizeProfileType обрезает пробелы, приводит к нижнему регистру и проверяет по списку.
func NormalizeProfileType(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := profileTypeSet[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfileType, raw)
	}
	return s, nil
}

// NormalizeProfileURL принимает только абсолютные http(s) URL с хостом.
// Пустой путь заменяется на "/": https://x.com и https://x.com/ хранятся одинаково.
func NormalizeProfileURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidProfileURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidProfileURL
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
