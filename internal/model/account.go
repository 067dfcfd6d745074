package model

import (
	"time"
)

// Account is a CRM sub-account (location) connected to the application.
type Account struct {
	ID            string    `db:"id" json:"id"`
	CRMLocationID string    `db:"crm_location_id" json:"crm_location_id"`
	CRMCompanyID  *string   `db:"crm_company_id" json:"crm_company_id"`
	Name          *string   `db:"name" json:"name"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type AccountSettings struct {
	ID        string    `db:"id" json:"id"`
	AccountID string    `db:"account_id" json:"account_id"`
	Settings  JSON      `db:"settings" json:"settings"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateAccountParams struct {
	CRMLocationID string
	CRMCompanyID  *string
	Name          *string
}
