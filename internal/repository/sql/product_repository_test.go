package sql

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "description", "price", "stock", "category", "created_at", "updated_at"}

func TestProductRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		product := &model.Product{
			Name:        "Test Product",
			Description: "Test Description",
			Price:       99.99,
			Stock:       3,
			Category:    model.DefaultCategory,
		}

		mock.ExpectPrepare("INSERT INTO products").
			ExpectExec().
			WithArgs(sqlmock.AnyArg(), product.Name, product.Description, product.Price, product.Stock,
				product.Category, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		createdProduct, err := repo.Create(ctx, product)
		require.NoError(t, err)
		assert.NotNil(t, createdProduct)

		parsed, err := uuid.Parse(createdProduct.ID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		assert.Equal(t, product.Name, createdProduct.Name)
		assert.False(t, createdProduct.CreatedAt.IsZero())
		assert.False(t, createdProduct.UpdatedAt.IsZero())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure", func(t *testing.T) {
		mock.ExpectPrepare("INSERT INTO products").
			ExpectExec().
			WillReturnError(errors.New("connection reset"))

		result, err := repo.Create(ctx, &model.Product{Name: "n", Description: "d"})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "failed to insert product")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful find", func(t *testing.T) {
		id := uuid.New()

		now := time.Now().UTC()
		rows := sqlmock.NewRows(columns).
			AddRow(id.String(), "Test Product", "Test Description", 99.99, 4, "Tools", now, now)

		mock.ExpectPrepare("SELECT (.+) FROM products WHERE id = \\$1").
			ExpectQuery().
			WithArgs(id.String()).
			WillReturnRows(rows)

		foundProduct, err := repo.FindByID(ctx, id.String())
		require.NoError(t, err)

		assert.Equal(t, id.String(), foundProduct.ID)
		assert.Equal(t, "Test Product", foundProduct.Name)
		assert.Equal(t, 99.99, foundProduct.Price)
		assert.Equal(t, 4, foundProduct.Stock)
		assert.Equal(t, "Tools", foundProduct.Category)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("product not found", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectPrepare("SELECT (.+) FROM products WHERE id = \\$1").
			ExpectQuery().
			WithArgs(id.String()).
			WillReturnError(sql.ErrNoRows)

		result, err := repo.FindByID(ctx, id.String())
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, repository.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id never reaches the database", func(t *testing.T) {
		result, err := repo.FindByID(ctx, "64b7f0c2e13a4c0012345678")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, repository.ErrInvalidID))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("list newest first", func(t *testing.T) {
		now := time.Now().UTC()
		id1 := uuid.New()
		id2 := uuid.New()

		rows := sqlmock.NewRows(columns).
			AddRow(id2.String(), "Product 2", "Description 2", 149.99, 1, "General", now, now).
			AddRow(id1.String(), "Product 1", "Description 1", 99.99, 0, "General", now.Add(-time.Minute), now)

		mock.ExpectPrepare("SELECT (.+) FROM products ORDER BY created_at DESC, id DESC").
			ExpectQuery().
			WillReturnRows(rows)

		result, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, id2.String(), result[0].ID)
		assert.Equal(t, id1.String(), result[1].ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table", func(t *testing.T) {
		mock.ExpectPrepare("SELECT (.+) FROM products").
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows(columns))

		result, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful update", func(t *testing.T) {
		id := uuid.New()
		created := time.Now().UTC().Add(-time.Hour)
		product := &model.Product{
			ID:          id.String(),
			Name:        "Renamed",
			Description: "Still a product",
			Price:       9.99,
			Stock:       2,
			Category:    "General",
			CreatedAt:   created,
			UpdatedAt:   time.Now().UTC(),
		}

		rows := sqlmock.NewRows(columns).
			AddRow(id.String(), product.Name, product.Description, product.Price, product.Stock, product.Category, created, product.UpdatedAt)

		mock.ExpectPrepare("UPDATE products").
			ExpectQuery().
			WithArgs(id.String(), product.Name, product.Description, product.Price, product.Stock, product.Category, product.UpdatedAt).
			WillReturnRows(rows)

		updated, err := repo.Update(ctx, product)
		require.NoError(t, err)
		assert.Equal(t, 9.99, updated.Price)
		assert.Equal(t, created, updated.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("product not found", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectPrepare("UPDATE products").
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows(columns))

		result, err := repo.Update(ctx, &model.Product{ID: id.String()})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, repository.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_DeleteByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectPrepare("DELETE FROM products WHERE id").
			ExpectQuery().
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "Gone", "Soon", 1.5, 0, "General", now, now))

		deleted, err := repo.DeleteByID(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, id.String(), deleted.ID)
		assert.Equal(t, "Gone", deleted.Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("product not found", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectPrepare("DELETE FROM products WHERE id").
			ExpectQuery().
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.DeleteByID(ctx, id.String())
		require.Error(t, err)
		assert.True(t, errors.Is(err, repository.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
