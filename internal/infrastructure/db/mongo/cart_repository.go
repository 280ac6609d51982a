package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techzone/storefront-api/internal/core/domain"
)

const collectionCarts = "carts"

// CartRepository stores one document per user and guards every write with
// the document's version field.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collectionCarts)}
}

type cartDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Items       []domain.CartItem  `bson:"items"`
	TotalAmount float64            `bson:"total_amount"`
	Version     int64              `bson:"version"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d cartDocument) toDomain() *domain.Cart {
	items := d.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return &domain.Cart{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Items:       items,
		TotalAmount: d.TotalAmount,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc cartDocument
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("%w: find cart: %w", domain.ErrDependency, err)
	}
	return doc.toDomain(), nil
}

// Save inserts a cart whose Version is zero, otherwise replaces its items and
// total only if the stored version still matches. cart.Version (and cart.ID
// on insert) is updated on success.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}

	if cart.Version == 0 {
		doc := cartDocument{
			UserID:      cart.UserID,
			Items:       items,
			TotalAmount: cart.TotalAmount,
			Version:     1,
			CreatedAt:   cart.CreatedAt,
			UpdatedAt:   cart.UpdatedAt,
		}
		res, err := r.col.InsertOne(ctx, doc)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrCartConflict
			}
			return fmt.Errorf("%w: insert cart: %w", domain.ErrDependency, err)
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			cart.ID = oid.Hex()
		}
		cart.Version = 1
		return nil
	}

	filter := bson.M{"user_id": cart.UserID, "version": cart.Version}
	update := bson.M{
		"$set": bson.M{
			"items":        items,
			"total_amount": cart.TotalAmount,
			"updated_at":   cart.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("%w: update cart: %w", domain.ErrDependency, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartConflict
	}
	cart.Version++
	return nil
}

// EnsureIndexes creates the unique user_id index that makes concurrent first
// inserts collide instead of producing two carts.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
