package service

import (
	"context"
	"fmt"

	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
)

const maxMessageLen = 500

// notify inserts a notification through tx, so it commits or rolls back with
// whatever mutation triggered it.
func notify(ctx context.Context, tx repository.Store, recipientID uint, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen]
	}
	n := &model.Notification{RecipientID: recipientID, Message: msg}
	return storeErr(tx.Notifications().Create(ctx, n), "create notification for user %d", recipientID)
}
