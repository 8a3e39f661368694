package repositories

import (
	"fmt"
	"time"

	"pasar/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductsCollection is the document collection holding products.
const ProductsCollection = "produk"

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"namaproduk"`
	Description string             `bson:"deskripsi"`
	Price       float64            `bson:"harga"`
	Quantity    int                `bson:"total"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d productDocument) model() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Quantity:    d.Quantity,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoProductRepository creates a repository over the produk collection of db.
func NewMongoProductRepository(db *mongo.Database, timeout time.Duration) *MongoProductRepository {
	return &MongoProductRepository{
		coll:    db.Collection(ProductsCollection),
		timeout: timeout,
	}
}

// List retrieves a page of products.
func (r *MongoProductRepository) List(opts ListOptions) ([]models.Product, error) {
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, mongoListFilter(opts), mongoFindOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.model())
	}
	return products, nil
}

// GetByID retrieves a product by its hex ObjectID.
func (r *MongoProductRepository) GetByID(id string) (*models.Product, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	var doc productDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err = translateMongoError(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	product := doc.model()
	return &product, nil
}

// Create inserts a product and sets its generated ID.
func (r *MongoProductRepository) Create(product *models.Product) error {
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	now := time.Now().UTC()
	doc := productDocument{
		ID:          primitive.NewObjectID(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = doc.ID.Hex()
	product.CreatedAt, product.UpdatedAt = now, now
	return nil
}

// Update replaces every mutable field of an existing product.
func (r *MongoProductRepository) Update(product *models.Product) error {
	filter, err := objectIDFilter(product.ID)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"namaproduk": product.Name,
		"deskripsi":  product.Description,
		"harga":      product.Price,
		"total":      product.Quantity,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete physically removes a product.
func (r *MongoProductRepository) Delete(id string) error {
	filter, err := objectIDFilter(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
