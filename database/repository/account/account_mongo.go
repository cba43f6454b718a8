package accountRepo

import (
	"context"
	"fmt"
	"time"

	"gigbridge/database"
	"gigbridge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAccountRepo implements AccountRepository using MongoDB.
type MongoAccountRepo struct {
	coll *mongo.Collection
}

// NewMongoAccountRepo creates a new instance of AccountRepository using MongoDB.
func NewMongoAccountRepo() AccountRepository {
	coll := database.DB().Collection("accounts")
	repo := &MongoAccountRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoAccountRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoAccountRepo) GetByID(id string) (*models.Account, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var account models.Account
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&account); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching account with id %s: %w", id, err)
	}
	return &account, nil
}

func (r *MongoAccountRepo) GetByEmail(email string) (*models.Account, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var account models.Account
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&account); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching account with email %s: %w", email, err)
	}
	return &account, nil
}

func (r *MongoAccountRepo) Create(account *models.Account) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	if _, err := r.coll.InsertOne(ctx, account); err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *MongoAccountRepo) Update(account *models.Account) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	account.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": account.ID}, account)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("account %s not found", account.ID)
	}
	return nil
}
