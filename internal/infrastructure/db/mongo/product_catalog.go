package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/techzone/storefront-api/internal/core/domain"
)

const collectionProducts = "products"

// ProductCatalog reads the products collection maintained by the catalog
// admin. Field names follow that collection's camelCase layout.
type ProductCatalog struct {
	col *mongo.Collection
}

func NewProductCatalog(db *mongo.Database) *ProductCatalog {
	return &ProductCatalog{col: db.Collection(collectionProducts)}
}

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	ProductName string             `bson:"productName"`
	Title       string             `bson:"title"`
	Desc        string             `bson:"desc"`
	Category    int                `bson:"category"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	Image       domain.Avatar      `bson:"image"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d productDocument) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID.Hex(),
		ProductName: d.ProductName,
		Title:       d.Title,
		Desc:        d.Desc,
		Category:    d.Category,
		Price:       d.Price,
		Stock:       d.Stock,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

func (c *ProductCatalog) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDocument
	if err := c.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: find product: %w", domain.ErrDependency, err)
	}
	return doc.toDomain(), nil
}

// FindByIDs fetches every listed product in one round trip. Malformed and
// unknown ids are left out of the result.
func (c *ProductCatalog) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	oids := objectIDs(ids)
	out := make(map[string]*domain.Product, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := c.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("%w: find products: %w", domain.ErrDependency, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc productDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode product: %w", domain.ErrDependency, err)
		}
		p := doc.toDomain()
		out[p.ID] = p
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate products: %w", domain.ErrDependency, err)
	}
	return out, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		oids = append(oids, oid)
	}
	return oids
}
