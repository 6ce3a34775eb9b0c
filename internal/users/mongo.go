package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hacktoberfest-api/auth-service/internal/models"
)

// MongoDirectory implements Directory using MongoDB. The unique index on
// email (EnsureIndexes) makes InsertOne an atomic insert-if-absent: the loser
// of a concurrent create gets a duplicate-key error instead of a second record.
type MongoDirectory struct {
	col *mongo.Collection
}

// NewMongoDirectory creates a directory backed by the given collection.
func NewMongoDirectory(col *mongo.Collection) *MongoDirectory {
	return &MongoDirectory{col: col}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (d *MongoDirectory) EnsureIndexes(ctx context.Context) error {
	_, err := d.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (d *MongoDirectory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := d.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (d *MongoDirectory) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if _, err := d.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}
