// Package pgstore implements the store interfaces on PostgreSQL via pgx.
package pgstore

import (
	"errors"
	"time"

	"ngobrol/server/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// nullableUser scans the columns of a LEFT JOINed users row.
type nullableUser struct {
	ID     *string
	Name   *string
	Email  *string
	Avatar *string
}

func (n *nullableUser) toResponse() *models.UserResponse {
	if n.ID == nil {
		return nil
	}
	return &models.UserResponse{ID: *n.ID, Name: *n.Name, Email: *n.Email, Avatar: *n.Avatar}
}

// nullableMessage scans the columns of a LEFT JOINed messages row.
type nullableMessage struct {
	ID        *string
	ChatID    *string
	Content   *string
	CreatedAt *time.Time
}

func (n *nullableMessage) toMessage() *models.Message {
	if n.ID == nil {
		return nil
	}
	return &models.Message{ID: *n.ID, ChatID: *n.ChatID, Content: *n.Content, CreatedAt: *n.CreatedAt}
}
