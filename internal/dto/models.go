package dto

import (
	"time"
)

type RegisterMemberInput struct {
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"required"`
	Wilaya        string `json:"wilaya" validate:"required"`
	Baladiya      string `json:"baladiya"`
	Country       string `json:"country" validate:"required"`
	FirstJoinYear int    `json:"first_join_year" validate:"required"`
}

type Member struct {
	MembershipNumber string    `json:"membership_number"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Wilaya           string    `json:"wilaya"`
	Baladiya         string    `json:"baladiya,omitempty"`
	Country          string    `json:"country"`
	FirstJoinYear    int       `json:"first_join_year"`
	Status           string    `json:"status"`
	SubscriptionType string    `json:"subscription_type,omitempty"`
	SubscriptionYear int       `json:"subscription_year,omitempty"`
	ProfilePhotoURL  string    `json:"profile_photo_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CardMember is the card-face projection used by the card printing
// export.
type CardMember struct {
	MembershipNumber string `json:"membership_number"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Wilaya           string `json:"wilaya"`
	ProfilePhotoURL  string `json:"profile_photo_url,omitempty"`
}

type UpdateProfilePhotoInput struct {
	StorageID string `json:"storage_id" validate:"required"`
}

type UpdateSubscriptionInput struct {
	SubscriptionType string `json:"subscription_type" validate:"required,oneof=type_1 type_2 type_3 type_4"`
}

type Subscription struct {
	SubscriptionType string    `json:"subscription_type"`
	Amount           int64     `json:"amount"`
	Year             int       `json:"year"`
	PaidAt           time.Time `json:"paid_at"`
}

type UploadDocumentInput struct {
	DocumentType string `json:"document_type" validate:"required,oneof=national_id passport electoral_card"`
	StorageID    string `json:"storage_id" validate:"required"`
	FileName     string `json:"file_name" validate:"required"`
}

type MemberDocument struct {
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	URL          string    `json:"url,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type AdminSettingsInput struct {
	SpeechAr         string `json:"speech_ar"`
	SpeechFr         string `json:"speech_fr"`
	PresidentPhotoID string `json:"president_photo_id"`
	LogoID           string `json:"logo_id"`
}

type AdminSettings struct {
	SpeechAr          string     `json:"speech_ar,omitempty"`
	SpeechFr          string     `json:"speech_fr,omitempty"`
	PresidentPhotoURL string     `json:"president_photo_url,omitempty"`
	LogoURL           string     `json:"logo_url,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// MemberFilters are AND-composed over the members table. Status
// defaults to active when left empty.
type MemberFilters struct {
	Wilaya           *string `json:"wilaya,omitempty"`
	Baladiya         *string `json:"baladiya,omitempty"`
	Status           *string `json:"status,omitempty"`
	SubscriptionType *string `json:"subscription_type,omitempty"`
	SubscriptionYear *int    `json:"subscription_year,omitempty"`
	FirstJoinYear    *int    `json:"first_join_year,omitempty"`
}

type QueryOptions struct {
	Limit  uint32  `json:"limit"`
	Cursor *string `json:"cursor,omitempty"`
	Sort   *string `json:"sort,omitempty"`
}

type ListResponse[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type WilayaCount struct {
	Wilaya string `json:"wilaya"`
	Count  int64  `json:"count"`
}

type DownloadStats struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"by_status"`
	ByWilaya []WilayaCount `json:"by_wilaya"`
}
