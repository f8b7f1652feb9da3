package db

import (
	"context"
	"time"

	"github.com/coboxlogistic/fleet-backend/internal/auth"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines the interface for user database operations
type UserRepository interface {
	InsertUser(ctx context.Context, user auth.User) error
	FindUserByID(ctx context.Context, id string) (*auth.User, error)
	FindUserByUsername(ctx context.Context, username string) (*auth.User, error)
	FindUserByEmail(ctx context.Context, email string) (*auth.User, error)
	UpdateUser(ctx context.Context, id string, user auth.User) error
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	Collection *mongo.Collection
}

func NewMongoUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{Collection: database.Collection("users")}
}

// InsertUser inserts a new user into the database
func (r *MongoUserRepository) InsertUser(ctx context.Context, user auth.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.IsActive = true

	_, err := r.Collection.InsertOne(ctx, user)
	return err
}

// FindUserByID finds a user by their ID
func (r *MongoUserRepository) FindUserByID(ctx context.Context, id string) (*auth.User, error) {
	var user auth.User
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUsername finds a user by their username
func (r *MongoUserRepository) FindUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	var user auth.User
	if err := r.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail finds a user by their email
func (r *MongoUserRepository) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	var user auth.User
	if err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user in the database
func (r *MongoUserRepository) UpdateUser(ctx context.Context, id string, user auth.User) error {
	user.UpdatedAt = time.Now()
	user.ID = id

	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": id}, user)
	return err
}

// DeleteUser deletes a user from the database
func (r *MongoUserRepository) DeleteUser(ctx context.Context, id string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// UpdateLastLogin updates the last login time for a user
func (r *MongoUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.Collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login": now, "updated_at": now}},
	)
	return err
}
