package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding product documents.
const CollectionName = "products"

// productDocument is the BSON shape of a stored product.
type productDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	Category    string             `bson:"category"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func toDocument(id primitive.ObjectID, p *model.Product) productDocument {
	return productDocument{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d productDocument) toModel() *model.Product {
	return &model.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Stock:       d.Stock,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return oid, nil
}

// ProductRepository implements the Repository interface on a MongoDB collection.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a new ProductRepository over the given collection.
func NewProductRepository(coll *mongo.Collection) *ProductRepository {
	return &ProductRepository{coll: coll}
}

// Create inserts a new product document under a fresh ObjectID.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	oid := primitive.NewObjectID()
	product.InitMeta(oid.Hex())

	if _, err := r.coll.InsertOne(ctx, toDocument(oid, product)); err != nil {
		slog.Error("error creating product", slog.Any("err", err))
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// List retrieves all products, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	// ObjectIDs carry a per-process counter, so _id breaks createdAt ties in insertion order
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*model.Product{}
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.toModel())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cursor: %w", err)
	}

	return products, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return doc.toModel(), nil
}

// Update replaces the whole document with the same ID.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	oid, err := parseID(product.ID)
	if err != nil {
		return nil, err
	}

	result, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, toDocument(oid, product))
	if err != nil {
		slog.Error("error replacing product", slog.Any("err", err), slog.String("product_id", product.ID))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}

	updated := *product
	return &updated, nil
}

// DeleteByID deletes a product by ID and returns the removed document.
func (r *ProductRepository) DeleteByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	return doc.toModel(), nil
}
