package model

import (
	"time"
)

type Conversation struct {
	ID                string    `db:"id" json:"id"`
	AccountID         string    `db:"account_id" json:"account_id"`
	CRMConversationID *string   `db:"crm_conversation_id" json:"crm_conversation_id"`
	CRMContactID      *string   `db:"crm_contact_id" json:"crm_contact_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
