package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID               uuid.UUID      `json:"id"`
	MembershipNumber string         `json:"membership_number"`
	FirstName        string         `json:"first_name"`
	LastName         string         `json:"last_name"`
	Email            sql.NullString `json:"email"`
	Phone            sql.NullString `json:"phone"`
	Wilaya           string         `json:"wilaya"`
	Baladiya         sql.NullString `json:"baladiya"`
	Country          string         `json:"country"`
	FirstJoinYear    int            `json:"first_join_year"`
	Status           string         `json:"status"`
	SubscriptionType sql.NullString `json:"subscription_type"`
	SubscriptionYear sql.NullInt64  `json:"subscription_year"`
	ProfilePhotoID   sql.NullString `json:"profile_photo_id"`
	// Password is a legacy column kept only for migration. It never
	// leaves the repository layer.
	Password  sql.NullString `json:"password"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt sql.NullTime   `json:"updated_at"`
	DeletedAt sql.NullTime   `json:"deleted_at"`
}

type SubscriptionHistory struct {
	ID               uuid.UUID `json:"id"`
	MembershipNumber string    `json:"membership_number"`
	SubscriptionType string    `json:"subscription_type"`
	Amount           int64     `json:"amount"`
	Year             int       `json:"year"`
	PaidAt           time.Time `json:"paid_at"`
}

type MemberDocument struct {
	ID           uuid.UUID `json:"id"`
	MemberID     uuid.UUID `json:"member_id"`
	DocumentType string    `json:"document_type"`
	StorageID    string    `json:"storage_id"`
	FileName     string    `json:"file_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type AdminSettings struct {
	ID               string         `json:"id"`
	SpeechAr         sql.NullString `json:"speech_ar"`
	SpeechFr         sql.NullString `json:"speech_fr"`
	PresidentPhotoID sql.NullString `json:"president_photo_id"`
	LogoID           sql.NullString `json:"logo_id"`
	UpdatedAt        sql.NullTime   `json:"updated_at"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type WilayaCount struct {
	Wilaya string `json:"wilaya"`
	Count  int64  `json:"count"`
}
