package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vinaysudani/task-manager-api/internal/model"
)

// TokenRepo manages the token set embedded in user documents.  A token is
// valid while it is a member of its user's set; there is no separate expiry
// bookkeeping.  Revocation is removal from the set, so a structurally valid
// token stops working the moment it is revoked.
type TokenRepo struct{ Col *mongo.Collection }

func NewTokenRepo(db *mongo.Database) *TokenRepo {
	return &TokenRepo{Col: db.Collection("users")}
}

// Append adds a newly issued token to the user's set.
func (r *TokenRepo) Append(ctx context.Context, userID primitive.ObjectID, token string) error {
	_, err := r.Col.UpdateByID(ctx, userID, bson.M{
		"$push": bson.M{"tokens": model.AuthToken{Token: token}},
	})
	return err
}

// FindUserByToken resolves a user whose token set contains the given token.
// The query matches on both the id and the token so a revoked token fails
// even though its signature is still valid.
func (r *TokenRepo) FindUserByToken(ctx context.Context, userID primitive.ObjectID, token string) (model.User, error) {
	var u model.User
	err := r.Col.FindOne(ctx, bson.M{
		"_id":          userID,
		"tokens.token": token,
	}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Revoke removes a single token from the user's set (logout of one device).
func (r *TokenRepo) Revoke(ctx context.Context, userID primitive.ObjectID, token string) error {
	_, err := r.Col.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"tokens": bson.M{"token": token}},
	})
	return err
}

// RevokeAll clears the user's token set (logout of every device).
func (r *TokenRepo) RevokeAll(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.Col.UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"tokens": []model.AuthToken{}},
	})
	return err
}
