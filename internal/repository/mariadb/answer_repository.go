package mariadb

import (
	"context"
	"database/sql"

	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// AnswerRepository only reads the externally-owned answers table; answer CRUD
// lives in another service.
type AnswerRepository struct {
	db *sql.DB
}

var _ port.AnswerRepository = (*AnswerRepository)(nil)

func NewAnswerRepository(db *sql.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

func (r *AnswerRepository) OwnedByUser(ctx context.Context, answerID, userID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM answers WHERE id = ? AND user_id = ?)`

	var owned bool
	if err := r.db.QueryRowContext(ctx, query, answerID, userID).Scan(&owned); err != nil {
		return false, err
	}
	return owned, nil
}
