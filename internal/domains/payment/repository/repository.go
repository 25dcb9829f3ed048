package repository

import (
	"context"
	"eventro/infras/otel"
	"eventro/infras/postgres"
	"eventro/internal/domains/payment/model"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	gRepo "eventro/shared/repository"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Payment interface {
	Insert(ctx context.Context, model model.Payment) error
	Upsert(ctx context.Context, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Payment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const upsertQuery = `
	INSERT INTO payments (
		id, booking_id, user_email, transaction_id, validation_id, amount,
		currency, payment_method, status, card_type, card_issuer, card_brand,
		payment_details, created_at, modified_at, created_by, modified_by
	) VALUES (
		:id, :booking_id, :user_email, :transaction_id, :validation_id, :amount,
		:currency, :payment_method, :status, :card_type, :card_issuer, :card_brand,
		:payment_details, :created_at, :modified_at, :created_by, :modified_by
	)
	ON CONFLICT (transaction_id) DO UPDATE SET
		validation_id   = EXCLUDED.validation_id,
		amount          = EXCLUDED.amount,
		currency        = EXCLUDED.currency,
		payment_method  = EXCLUDED.payment_method,
		status          = EXCLUDED.status,
		card_type       = EXCLUDED.card_type,
		card_issuer     = EXCLUDED.card_issuer,
		card_brand      = EXCLUDED.card_brand,
		payment_details = EXCLUDED.payment_details,
		modified_at     = EXCLUDED.modified_at,
		modified_by     = EXCLUDED.modified_by`

// Upsert writes the payment record keyed by transaction id, so repeated
// gateway callbacks for the same transaction converge on one row.
func (repo *repositoryImpl) Upsert(ctx context.Context, payment model.Payment) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Upsert", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = repo.db.Write.NamedExecContext(ctx, upsertQuery, payment); err != nil {
		log.Error().Err(err).Str("transactionID", payment.TransactionID).Msg("failed to upsert payment")

		return fmt.Errorf("failed to upsert payment: %w", err)
	}

	return nil
}
