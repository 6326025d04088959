package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

const productColumns = "id, name, description, price, stock, category, created_at, updated_at"

// ProductRepository implements the Repository interface on PostgreSQL.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// parseID checks that id is a UUID and returns its canonical form.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return parsed.String(), nil
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product id: %w", err)
	}
	product.InitMeta(id.String())

	query := `INSERT INTO products (` + productColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, product.ID, product.Name, product.Description, product.Price,
		product.Stock, product.Category, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// List retrieves all products, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	// id is a version 7 UUID, so it breaks created_at ties in insertion order
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	return r.queryOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, "select", key)
}

// Update replaces every editable column of the product with the same ID.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	key, err := parseID(product.ID)
	if err != nil {
		return nil, err
	}

	query := `UPDATE products
	          SET name = $2, description = $3, price = $4, stock = $5, category = $6, updated_at = $7
	          WHERE id = $1
	          RETURNING ` + productColumns

	return r.queryOne(ctx, query, "update", key, product.Name, product.Description, product.Price,
		product.Stock, product.Category, product.UpdatedAt)
}

// DeleteByID deletes a product by ID and returns the removed row.
func (r *ProductRepository) DeleteByID(ctx context.Context, id string) (*model.Product, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	return r.queryOne(ctx, `DELETE FROM products WHERE id = $1 RETURNING `+productColumns, "delete", key)
}

func (r *ProductRepository) queryOne(ctx context.Context, query, op string, args ...any) (*model.Product, error) {
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s statement: %w", op, err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to %s product: %w", op, err)
	}

	return product, nil
}
