package repository

import (
	"context"

	"github.com/devfolio/portfolio-backend/internal/models"
	"github.com/devfolio/portfolio-backend/internal/storage"
)

type MessageRepository struct {
	db *storage.Postgres
}

func NewMessageRepository(db *storage.Postgres) *MessageRepository {
	return &MessageRepository{db: db}
}

// Inserts a new contact message. The store assigns ID and CreatedAt.
func (r *MessageRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.DB.WithContext(ctx).Create(msg).Error
}
