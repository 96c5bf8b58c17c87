package db

import "os"

func WebhookDedupeTableName() string {
	return os.Getenv("WEBHOOK_DEDUPE_TABLE")
}

func ClaimLockTableName() string {
	return os.Getenv("CLAIM_LOCK_TABLE")
}
