// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"github.com/dalemusser/capstonehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingsKey is the _id of the single site_settings document.
const settingsKey = "site"

// Store provides access to the site_settings collection. The portal
// keeps exactly one settings document.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_settings")}
}

// Get returns the portal settings, or zero-value defaults (no deadline)
// if none have been saved yet.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{"_id": settingsKey}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.SiteSettings{}, nil
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	return settings, nil
}

// SetPreferenceDeadline stores the submission cutoff. A nil deadline
// clears it (no deadline). Uses upsert so it works whether the settings
// document exists or not.
func (s *Store) SetPreferenceDeadline(ctx context.Context, deadline *time.Time, updatedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	set := bson.M{
		"updated_at":    now,
		"updated_by_id": updatedBy,
	}
	unset := bson.M{}
	if deadline != nil {
		d := deadline.UTC()
		set["preference_deadline"] = d
	} else {
		unset["preference_deadline"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": settingsKey}, update, options.Update().SetUpsert(true))
	return err
}
