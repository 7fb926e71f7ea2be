package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinaysudani/task-manager-api/internal/model"
	"github.com/vinaysudani/task-manager-api/internal/utils"
)

// UserRepo persists user documents in the `users` collection.
type UserRepo struct{ Col *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{Col: db.Collection("users")}
}

// Create inserts a new user.  The password is hashed exactly once, at the
// point the record is persisted.  A duplicate email surfaces as
// ErrEmailExists via the unique index.
func (r *UserRepo) Create(ctx context.Context, name, email string, age int, password string, cost int) (model.User, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	now := time.Now().UTC()
	u := model.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     normalizeEmail(email),
		Age:       age,
		Password:  hash,
		Tokens:    []model.AuthToken{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.Col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.Col.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by document id.
func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	var u model.User
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// EmailTaken reports whether a user with the given email already exists.
// Used by the registration validation rules.
func (r *UserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"email": normalizeEmail(email)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// VerifyCredentials looks a user up by email and checks the password against
// the stored bcrypt hash.  Unknown email and wrong password both return
// ErrInvalidCredentials so callers cannot tell which one failed.
func (r *UserRepo) VerifyCredentials(ctx context.Context, email, password string) (model.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.Password, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// ApplyUpdates sets the given fields on a user document and returns the
// updated record.  Callers are responsible for allow-listing the keys; this
// method only knows how to coerce and persist them.  A password update is
// re-hashed here, keeping plaintext out of the database on every write path.
func (r *UserRepo) ApplyUpdates(ctx context.Context, id primitive.ObjectID, updates map[string]any, cost int) (model.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range updates {
		switch key {
		case "name":
			if s, ok := value.(string); ok {
				set["name"] = strings.TrimSpace(s)
			}
		case "email":
			if s, ok := value.(string); ok {
				set["email"] = normalizeEmail(s)
			}
		case "age":
			// JSON numbers arrive as float64; numeric strings are accepted
			// by validation, so they must persist too.
			switch n := value.(type) {
			case float64:
				set["age"] = int(n)
			case string:
				if i, err := strconv.Atoi(n); err == nil {
					set["age"] = i
				}
			}
		case "password":
			s, ok := value.(string)
			if !ok {
				continue
			}
			hash, err := utils.HashPassword(strings.TrimSpace(s), cost)
			if err != nil {
				return model.User{}, err
			}
			set["password"] = hash
		}
	}

	var u model.User
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

// Delete removes the user document.  Cascading the owned tasks is the
// handler's job and happens before this call.
func (r *UserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAvatar stores the normalized avatar bytes on the user document.
func (r *UserRepo) SetAvatar(ctx context.Context, id primitive.ObjectID, data []byte) error {
	_, err := r.Col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"avatar":     data,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// UnsetAvatar removes the avatar field from the user document.
func (r *UserRepo) UnsetAvatar(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Col.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"avatar": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
