package model

// Table names in the hosted schema.
const (
	TableAccounts        = "accounts"
	TableAccountSettings = "account_settings"
	TableConversations   = "conversations"
	TableMessages        = "messages"
	TableAIFunctions     = "ai_functions"
)
