// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSettings holds portal-wide configuration editable by instructors.
// There is a single settings document (see settingstore.SettingsID).
type SiteSettings struct {
	ID string `bson:"_id,omitempty" json:"id,omitempty"`

	// PreferenceDeadline is the optional cutoff after which students can
	// no longer submit or change ranked preferences. Nil means no deadline.
	PreferenceDeadline *time.Time `bson:"preference_deadline,omitempty" json:"preference_deadline,omitempty"`

	// Audit fields
	UpdatedAt   *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
}
