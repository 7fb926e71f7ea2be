package repository

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinaysudani/task-manager-api/internal/model"
)

// TaskRepo persists task documents in the `tasks` collection.  Every lookup
// and mutation filters by owner, so a task belonging to another user is
// indistinguishable from a missing one.
type TaskRepo struct{ Col *mongo.Collection }

func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{Col: db.Collection("tasks")}
}

// ListQuery captures the pagination, filter and sort parameters of a task
// listing request.
type ListQuery struct {
	Completed   *bool  // nil means no completion filter
	SortField   string // empty means natural order
	SortDir     int    // 1 ascending, -1 descending
	PerPage     int64
	CurrentPage int64 // 1-indexed
}

// Skip returns the number of records to skip for the requested page.
func (q ListQuery) Skip() int64 {
	return q.PerPage * (q.CurrentPage - 1)
}

// ParseListQuery builds a ListQuery from request query parameters.  Defaults
// are 100 records per page starting at page 1.  sortBy uses the
// "field:direction" form; any direction other than "desc" sorts ascending.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{PerPage: 100, CurrentPage: 1, SortDir: 1}

	if v := values.Get("completed"); v != "" {
		completed := v == "true"
		q.Completed = &completed
	}
	if v := values.Get("sortBy"); v != "" {
		parts := strings.SplitN(v, ":", 2)
		q.SortField = parts[0]
		if len(parts) == 2 && parts[1] == "desc" {
			q.SortDir = -1
		}
	}
	if n, err := strconv.ParseInt(values.Get("per_page"), 10, 64); err == nil && n > 0 {
		q.PerPage = n
	}
	if n, err := strconv.ParseInt(values.Get("current_page"), 10, 64); err == nil && n > 0 {
		q.CurrentPage = n
	}
	return q
}

// Create inserts a task owned by the given user.
func (r *TaskRepo) Create(ctx context.Context, owner primitive.ObjectID, title, description string, completed bool) (model.Task, error) {
	now := time.Now().UTC()
	t := model.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Completed:   completed,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.Col.InsertOne(ctx, t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// GetByOwner fetches a single task scoped to its owner.
func (r *TaskRepo) GetByOwner(ctx context.Context, owner, id primitive.ObjectID) (model.Task, error) {
	var t model.Task
	err := r.Col.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// List returns one page of the owner's tasks plus the total number of
// matching records.  Count and page fetch are two separate queries; the
// total can drift under concurrent writes, which is accepted behavior.
func (r *TaskRepo) List(ctx context.Context, owner primitive.ObjectID, q ListQuery) ([]model.Task, int64, error) {
	filter := bson.M{"owner": owner}
	if q.Completed != nil {
		filter["completed"] = *q.Completed
	}

	total, err := r.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSkip(q.Skip()).SetLimit(q.PerPage)
	if q.SortField != "" {
		opts.SetSort(bson.D{{Key: q.SortField, Value: q.SortDir}})
	}
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	tasks := []model.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// ApplyUpdates sets the given fields on an owner-scoped task and returns the
// updated document.  Allow-listing of keys happens in the handler.
func (r *TaskRepo) ApplyUpdates(ctx context.Context, owner, id primitive.ObjectID, updates map[string]any) (model.Task, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range updates {
		switch key {
		case "title":
			if s, ok := value.(string); ok {
				set["title"] = strings.TrimSpace(s)
			}
		case "description":
			if s, ok := value.(string); ok {
				set["description"] = s
			}
		case "completed":
			if b, ok := value.(bool); ok {
				set["completed"] = b
			}
		}
	}

	var t model.Task
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner": owner},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// Delete removes an owner-scoped task and returns the deleted document.
func (r *TaskRepo) Delete(ctx context.Context, owner, id primitive.ObjectID) (model.Task, error) {
	var t model.Task
	err := r.Col.FindOneAndDelete(ctx, bson.M{"_id": id, "owner": owner}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// DeleteAllForOwner removes every task owned by the user.  Called from the
// account deletion handler as the cascade step.
func (r *TaskRepo) DeleteAllForOwner(ctx context.Context, owner primitive.ObjectID) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"owner": owner})
	return err
}
