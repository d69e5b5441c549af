package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
)

// PaymentRepository implements port.PaymentRepository using PostgreSQL.
type PaymentRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var paymentColumns = []string{
	"id",
	"stripe_id",
	"amount",
	"currency",
	"status",
	"kind",
	"payment_method",
	"payer_email",
	"payer_name",
	"user_id",
	"cotisation_id",
	"subscription_id",
	"receipt_path",
	"created_at",
	"updated_at",
}

// CreateIfAbsent inserts the payment unless its stripe_id already exists.
// The unique index on stripe_id makes replayed webhook deliveries no-ops.
func (r *PaymentRepository) CreateIfAbsent(ctx context.Context, payment domain.Payment) (bool, error) {
	stmt, args, err := r.builder.Insert("iyffa.payments").
		Columns(paymentColumns...).
		Values(
			payment.ID,
			payment.StripeID,
			payment.Amount,
			payment.Currency,
			payment.Status,
			payment.Kind,
			payment.PaymentMethod,
			payment.PayerEmail,
			payment.PayerName,
			payment.UserID,
			payment.CotisationID,
			payment.SubscriptionID,
			payment.ReceiptPath,
			payment.CreatedAt,
			payment.UpdatedAt,
		).
		Suffix("ON CONFLICT (stripe_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert payment sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("insert payment: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	if err := row.Scan(
		&payment.ID,
		&payment.StripeID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.Kind,
		&payment.PaymentMethod,
		&payment.PayerEmail,
		&payment.PayerName,
		&payment.UserID,
		&payment.CotisationID,
		&payment.SubscriptionID,
		&payment.ReceiptPath,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return &payment, nil
}

func (r *PaymentRepository) getBy(ctx context.Context, where squirrel.Eq) (*domain.Payment, error) {
	stmt, args, err := r.builder.Select(paymentColumns...).
		From("iyffa.payments").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select payment sql: %w", err)
	}

	return scanPayment(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *PaymentRepository) GetByStripeID(ctx context.Context, stripeID string) (*domain.Payment, error) {
	return r.getBy(ctx, squirrel.Eq{"stripe_id": stripeID})
}

func (r *PaymentRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.Payment, error) {
	return r.getBy(ctx, squirrel.Eq{"subscription_id": subscriptionID})
}

func (r *PaymentRepository) query(ctx context.Context, where any) ([]domain.Payment, error) {
	query := r.builder.Select(paymentColumns...).
		From("iyffa.payments").
		OrderBy("created_at DESC")
	if where != nil {
		query = query.Where(where)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list payments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}

	return payments, rows.Err()
}

func (r *PaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	return r.query(ctx, nil)
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return r.query(ctx, squirrel.Eq{"user_id": userID})
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	stmt, args, err := r.builder.Update("iyffa.payments").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update payment status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *PaymentRepository) SetReceiptPath(ctx context.Context, id string, path string) error {
	stmt, args, err := r.builder.Update("iyffa.payments").
		Set("receipt_path", path).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update receipt path sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update receipt path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// HasSucceededMembershipPayment reports whether the user has at least one
// succeeded membership renewal tied to one of their cotisations.
func (r *PaymentRepository) HasSucceededMembershipPayment(ctx context.Context, userID string) (bool, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("iyffa.payments p").
		Join("iyffa.cotisations c ON c.id = p.cotisation_id").
		Where(squirrel.Eq{
			"c.user_id": userID,
			"p.status":  domain.PaymentStatusSucceeded,
			"p.kind":    domain.PaymentKindMembershipRenewal,
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build membership payment sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("count membership payments: %w", err)
	}

	return count > 0, nil
}

// SumSucceeded totals all succeeded payment amounts.
func (r *PaymentRepository) SumSucceeded(ctx context.Context) (float64, error) {
	stmt, args, err := r.builder.Select("COALESCE(SUM(amount), 0)").
		From("iyffa.payments").
		Where(squirrel.Eq{"status": domain.PaymentStatusSucceeded}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sum payments sql: %w", err)
	}

	var total float64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}

	return total, nil
}

func (r *PaymentRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("iyffa.payments").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count payments sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}

	return count, nil
}
