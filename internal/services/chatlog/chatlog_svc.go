package chatlog

import (
	"context"
	"database/sql"
	"time"
)

// IChatLogService is the append-only message sink. One row per accepted
// room chat event; private and system traffic is never recorded.
type IChatLogService interface {
	RecordMessage(ctx context.Context, room, identity, text string, at time.Time) error
}

type chatLogService struct {
	db *sql.DB
}

func NewChatLogService(db *sql.DB) IChatLogService {
	return &chatLogService{db: db}
}

func (svc *chatLogService) RecordMessage(ctx context.Context, room, identity, text string, at time.Time) error {
	const q = `
	  INSERT INTO messages (room, identity, content, sent_at)
	       VALUES          ($1,   $2,       $3,      $4)`

	_, err := svc.db.ExecContext(ctx, q, room, identity, text, at.UTC())
	return err
}

// nopChatLog discards everything; used when no database is configured.
type nopChatLog struct{}

func NewNopChatLog() IChatLogService { return nopChatLog{} }

func (nopChatLog) RecordMessage(context.Context, string, string, string, time.Time) error {
	return nil
}
