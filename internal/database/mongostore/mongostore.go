// Package mongostore keeps users and tasks in MongoDB collections. Integer
// ids come from a counters collection so they stay monotonic like the SQL
// backends.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo-ledger/internal/models"
	"todo-ledger/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	tasksCollection    = "tasks"
	countersCollection = "counters"
)

type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	tasks    *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open connects to uri, pings the server and ensures indexes on database dbName.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:   client,
		users:    db.Collection(usersCollection),
		tasks:    db.Collection(tasksCollection),
		counters: db.Collection(countersCollection),
		now:      time.Now,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks index: %w", err)
	}
	return nil
}

// nextID atomically increments and returns the counter named name.
func (s *Store) nextID(ctx context.Context, name string) (uint, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return uint(doc.Seq), nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	id, err := s.nextID(ctx, usersCollection)
	if err != nil {
		return err
	}
	u.ID = id
	u.CreatedAt = s.now().UTC()
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, store.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *Store) ListTasks(ctx context.Context, ownerID uint) ([]models.Task, error) {
	cursor, err := s.tasks.Find(ctx,
		bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]models.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	id, err := s.nextID(ctx, tasksCollection)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.tasks.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, ownerID, id uint, patch models.TaskPatch) (models.Task, error) {
	filter := bson.M{"_id": id, "owner_id": ownerID}

	var (
		task models.Task
		err  error
	)
	if patch.Empty() {
		err = s.tasks.FindOne(ctx, filter).Decode(&task)
	} else {
		set := bson.M{"updated_at": s.now().UTC()}
		if patch.Title != nil {
			set["title"] = *patch.Title
		}
		if patch.Completed != nil {
			set["completed"] = *patch.Completed
		}
		err = s.tasks.FindOneAndUpdate(ctx, filter,
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&task)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, store.ErrNotFound
		}
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, ownerID, id uint) error {
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes every collection the store uses. Intended for tests.
func (s *Store) Drop(ctx context.Context) error {
	for _, c := range []*mongo.Collection{s.users, s.tasks, s.counters} {
		if err := c.Drop(ctx); err != nil {
			return err
		}
	}
	return s.ensureIndexes(ctx)
}
