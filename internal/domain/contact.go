package domain

import "time"

type Contact struct {
	OwnerID   string    `json:"-" dynamodbav:"owner_id"`
	ContactID string    `json:"id" dynamodbav:"contact_id"`
	FirstName string    `json:"first_name" dynamodbav:"first_name"`
	LastName  string    `json:"last_name" dynamodbav:"last_name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Phone     string    `json:"phone_number" dynamodbav:"phone_number"`
	Birthday  time.Time `json:"birthday" dynamodbav:"birthday"`
	Note      *string   `json:"additional_info,omitempty" dynamodbav:"additional_info"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// ContactRequest carries the full field set for create and update.
// Updates are full-replace: every field is overwritten, none merged.
type ContactRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=50"`
	LastName  string  `json:"last_name" validate:"required,max=50"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone_number" validate:"required,max=20"`
	Birthday  string  `json:"birthday" validate:"required"` // expected format: YYYY-MM-DD
	Note      *string `json:"additional_info"`
}
