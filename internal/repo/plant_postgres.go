package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/plant-store/internal/models"
)

const DefaultQueryTimeout = 3 * time.Second

const (
	selectPlantQuery = `SELECT id, name, image, price, is_in_stock FROM plants WHERE id = $1`
	updatePlantQuery = `UPDATE plants SET name = $1, image = $2, price = $3, is_in_stock = $4 WHERE id = $5`
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresPlantRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresPlantRepository(db *sql.DB, timeout time.Duration) *PostgresPlantRepository {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &PostgresPlantRepository{db: db, timeout: timeout}
}

func (r *PostgresPlantRepository) Create(ctx context.Context, p models.Plant) (models.Plant, error) {
	query := `INSERT INTO plants (name, image, price, is_in_stock) VALUES ($1, $2, $3, $4) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Image, p.Price, p.IsInStock).Scan(&p.ID)
	if err != nil {
		return models.Plant{}, fmt.Errorf("insert plant: %w", err)
	}
	return p, nil
}

func (r *PostgresPlantRepository) GetByID(ctx context.Context, id int) (models.Plant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return getPlant(ctx, r.db, selectPlantQuery, id)
}

func (r *PostgresPlantRepository) Update(ctx context.Context, p models.Plant) (models.Plant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := updatePlant(ctx, r.db, p); err != nil {
		return models.Plant{}, err
	}
	return p, nil
}

// Modify locks the row with SELECT ... FOR UPDATE so that concurrent
// modifications of the same plant are serialized.
func (r *PostgresPlantRepository) Modify(ctx context.Context, id int, fn func(*models.Plant)) (p models.Plant, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Plant{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p, err = getPlant(ctx, tx, selectPlantQuery+" FOR UPDATE", id)
	if err != nil {
		return models.Plant{}, err
	}

	fn(&p)
	p.ID = id

	if err = updatePlant(ctx, tx, p); err != nil {
		return models.Plant{}, err
	}
	if err = tx.Commit(); err != nil {
		return models.Plant{}, fmt.Errorf("commit transaction: %w", err)
	}
	return p, nil
}

func (r *PostgresPlantRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM plants WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete plant: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrPlantNotFound
	}
	return nil
}

func getPlant(ctx context.Context, q queryer, query string, id int) (models.Plant, error) {
	var p models.Plant
	err := q.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Image, &p.Price, &p.IsInStock)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Plant{}, ErrPlantNotFound
	}
	if err != nil {
		return models.Plant{}, fmt.Errorf("select plant: %w", err)
	}
	return p, nil
}

func updatePlant(ctx context.Context, q queryer, p models.Plant) error {
	res, err := q.ExecContext(ctx, updatePlantQuery, p.Name, p.Image, p.Price, p.IsInStock, p.ID)
	if err != nil {
		return fmt.Errorf("update plant: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrPlantNotFound
	}
	return nil
}
