package model

import (
	"time"
)

// AIFunction is a tool definition an account exposes to its assistant.
type AIFunction struct {
	ID          string    `db:"id" json:"id"`
	AccountID   string    `db:"account_id" json:"account_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Parameters  JSON      `db:"parameters" json:"parameters"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
