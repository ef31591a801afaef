// internal/app/store/memberships/membershipstore.go
package membershipstore

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

// ErrAlreadyGrouped means the student already belongs to a group; the
// unique index on user_id enforces one group per student system-wide.
var ErrAlreadyGrouped = errors.New("student already belongs to a group")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_memberships")}
}

// Insert adds one membership row. AssignedRank records which declared
// preference the placement satisfied (models.RankFallback for fallback
// placements).
func (s *Store) Insert(ctx context.Context, m models.GroupMembership) (models.GroupMembership, error) {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMembership{}, ErrAlreadyGrouped
		}
		return models.GroupMembership{}, err
	}
	return m, nil
}

// InsertMany adds a batch of membership rows in one write. Ordered, so
// a duplicate aborts the batch and surfaces ErrAlreadyGrouped.
func (s *Store) InsertMany(ctx context.Context, ms []models.GroupMembership) error {
	if len(ms) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(ms))
	for _, m := range ms {
		m.ID = primitive.NewObjectID()
		m.CreatedAt = now
		docs = append(docs, m)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrAlreadyGrouped
		}
		return err
	}
	return nil
}

// ListByGroup returns a group's membership rows sorted by user_id.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMembership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "user_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.GroupMembership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GroupedUserIDs returns the IDs of every student who already holds a
// committed membership. Partial runs exclude these from the roster.
func (s *Store) GroupedUserIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.GroupMembership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.UserID)
	}
	return ids, cur.Err()
}

// CountByProject returns committed member counts keyed by project, the
// occupancy figure partial runs subtract from TeamSize.
func (s *Store) CountByProject(ctx context.Context) (map[primitive.ObjectID]int, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id": "$project_id",
			"n":   bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[primitive.ObjectID]int{}
	for cur.Next(ctx) {
		var row struct {
			ProjectID primitive.ObjectID `bson:"_id"`
			N         int                `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ProjectID] = row.N
	}
	return out, cur.Err()
}

// DeleteAll removes every membership row. Returns the number deleted.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// HasGroup reports whether the user already belongs to any group.
func (s *Store) HasGroup(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}
