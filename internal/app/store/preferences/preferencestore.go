// internal/app/store/preferences/preferencestore.go
package preferencestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/capstonehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicatePreference = errors.New("duplicate preference rank or project for this student")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("preferences")}
}

// Choice is one (project, rank) entry in a student's submitted list.
type Choice struct {
	ProjectID primitive.ObjectID
	Rank      int
}

// ReplaceForStudent atomically swaps a student's preference list for the
// given choices. All entries share one SubmittedAt so the student's
// whole submission carries a single tie-break timestamp. Run it inside
// txn.Run when the delete and insert must not be observed separately.
func (s *Store) ReplaceForStudent(ctx context.Context, studentID primitive.ObjectID, choices []Choice) ([]models.Preference, error) {
	if _, err := s.c.DeleteMany(ctx, bson.M{"student_id": studentID}); err != nil {
		return nil, err
	}
	if len(choices) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(choices))
	out := make([]models.Preference, 0, len(choices))
	for _, ch := range choices {
		p := models.Preference{
			ID:          primitive.NewObjectID(),
			StudentID:   studentID,
			ProjectID:   ch.ProjectID,
			Rank:        ch.Rank,
			SubmittedAt: now,
		}
		docs = append(docs, p)
		out = append(out, p)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicatePreference
		}
		return nil, err
	}
	return out, nil
}

// DeleteByStudent withdraws a student's entire list. Returns the number
// of entries removed.
func (s *Store) DeleteByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByStudent returns one student's preferences sorted by rank.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Preference, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rank", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"student_id": studentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Preference
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every preference sorted by (student_id, rank), the
// shape the snapshot loader consumes.
func (s *Store) ListAll(ctx context.Context) ([]models.Preference, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "student_id", Value: 1},
		{Key: "rank", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Preference
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
