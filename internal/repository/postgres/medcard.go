package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
)

// Medical cards are valid for ten years from issue.
const medCardValidity = 10 * 365 * 24 * time.Hour

type medCardRepository struct {
	db *DB
}

func NewMedCardRepository(db *DB) repository.MedCardRepository {
	return &medCardRepository{db: db}
}

func (r *medCardRepository) Create(ctx context.Context, card *model.MedCard) error {
	if card.DateExpires.IsZero() {
		card.DateExpires = time.Now().Add(medCardValidity)
	}
	query := `
		INSERT INTO med_cards (date_expires) VALUES ($1)
		RETURNING id, date_created
	`
	err := r.db.ext(ctx).QueryRowxContext(ctx, query, card.DateExpires).
		Scan(&card.ID, &card.DateCreated)
	if err != nil {
		return fmt.Errorf("failed to create med card: %w", err)
	}
	return nil
}
