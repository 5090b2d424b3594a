// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetImage(ctx context.Context, id string) ([]byte, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// List leaves Image empty; the bytes are served by GetImage.
func (r *repository) List(ctx context.Context) ([]Product, error) {
	db := core.Conn(ctx, r.db)
	query := `
		SELECT id, name, description, price, created_at, updated_at
		FROM products
		ORDER BY created_at ASC, id ASC`

	products := []Product{}
	if err := db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT id, name, description, price, image, created_at, updated_at
		FROM products
		WHERE id = ?`)

	var p Product
	err := db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *repository) GetImage(ctx context.Context, id string) ([]byte, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`SELECT image FROM products WHERE id = ?`)

	var image []byte
	err := db.GetContext(ctx, &image, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product image: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product image: %w", err)
	}

	return image, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		INSERT INTO products (
			id, name, description, price, image, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Image,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		UPDATE products
		SET name = ?, description = ?, price = ?, image = ?, updated_at = ?
		WHERE id = ?`)

	result, err := db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.Image,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}

	return nil
}
