// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/bhutanwine/engagement-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrEngagementNotFound возвращается, если запись вовлечённости клиента отсутствует.
var ErrEngagementNotFound = errors.New("engagement record not found")

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateCustomer создаёт нового клиента с непрозрачным идентификатором.
func (r *PostgresRepository) CreateCustomer(ctx context.Context, name, email string) (*model.Customer, error) {
	id := uuid.NewString()

	var createdAt time.Time
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customers (id, name, email) VALUES ($1, $2, $3) RETURNING created_at`,
		id, name, email,
	).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return &model.Customer{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: createdAt,
	}, nil
}

// ListCustomersOrdered возвращает не более limit клиентов, отсортированных по указанному полю.
func (r *PostgresRepository) ListCustomersOrdered(ctx context.Context, field model.SearchField, limit int) ([]model.Customer, error) {
	var orderBy string
	switch field {
	case model.SearchByEmail:
		orderBy = "email"
	default:
		orderBy = "name"
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, created_at FROM customers ORDER BY `+orderBy+` LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

// ListCustomersByCreatedRange возвращает клиентов, созданных в указанном интервале,
// в порядке убывания времени создания. Обе границы необязательны и включаются в интервал.
func (r *PostgresRepository) ListCustomersByCreatedRange(ctx context.Context, start, end *time.Time) ([]model.Customer, error) {
	query := `SELECT id, name, email, created_at FROM customers`
	args := make([]any, 0, 2)

	switch {
	case start != nil && end != nil:
		query += ` WHERE created_at >= $1 AND created_at <= $2`
		args = append(args, *start, *end)
	case start != nil:
		query += ` WHERE created_at >= $1`
		args = append(args, *start)
	case end != nil:
		query += ` WHERE created_at <= $1`
		args = append(args, *end)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select customers by range: %w", err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

func scanCustomers(rows pgx.Rows) ([]model.Customer, error) {
	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return customers, nil
}

// GetEngagement возвращает запись вовлечённости клиента.
func (r *PostgresRepository) GetEngagement(ctx context.Context, customerID string) (*model.EngagementRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT customer_id, google_reviewed, google_review_at,
		        instagram_followed, instagram_follow_at,
		        discount_redeemed, discount_redeemed_at, created_at
		 FROM engagement
		 WHERE customer_id = $1`,
		customerID,
	)

	var rec model.EngagementRecord
	err := row.Scan(
		&rec.CustomerID,
		&rec.GoogleReviewed, &rec.GoogleReviewAt,
		&rec.InstagramFollowed, &rec.InstagramFollowAt,
		&rec.DiscountRedeemed, &rec.DiscountRedeemedAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEngagementNotFound
		}
		return nil, fmt.Errorf("get engagement: %w", err)
	}

	return &rec, nil
}

// CreateEngagement создаёт запись вовлечённости с флагами по умолчанию.
// Повторное создание безопасно: начальные значения всегда одни и те же константы,
// поэтому конфликт уникальности трактуется как успешный no-op.
func (r *PostgresRepository) CreateEngagement(ctx context.Context, customerID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO engagement (customer_id) VALUES ($1)`,
		customerID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil
		}
		return fmt.Errorf("create engagement: %w", err)
	}
	return nil
}

// MarkGoogleReviewed отмечает, что клиент оставил отзыв в Google.
func (r *PostgresRepository) MarkGoogleReviewed(ctx context.Context, customerID string) error {
	return r.markAction(ctx, customerID,
		`UPDATE engagement
		 SET google_reviewed = TRUE, google_review_at = now()
		 WHERE customer_id = $1`,
		"mark google reviewed")
}

// MarkInstagramFollowed отмечает, что клиент подписался на Instagram.
func (r *PostgresRepository) MarkInstagramFollowed(ctx context.Context, customerID string) error {
	return r.markAction(ctx, customerID,
		`UPDATE engagement
		 SET instagram_followed = TRUE, instagram_follow_at = now()
		 WHERE customer_id = $1`,
		"mark instagram followed")
}

// MarkDiscountRedeemed отмечает скидку использованной. Повторный вызов идемпотентен:
// время первого погашения сохраняется.
func (r *PostgresRepository) MarkDiscountRedeemed(ctx context.Context, customerID string) error {
	return r.markAction(ctx, customerID,
		`UPDATE engagement
		 SET discount_redeemed = TRUE,
		     discount_redeemed_at = COALESCE(discount_redeemed_at, now())
		 WHERE customer_id = $1`,
		"mark discount redeemed")
}

func (r *PostgresRepository) markAction(ctx context.Context, customerID, query, op string) error {
	cmdTag, err := r.pool.Exec(ctx, query, customerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrEngagementNotFound)
	}

	return nil
}
