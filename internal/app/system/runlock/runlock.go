// Package runlock provides a Mongo-backed advisory lock for the
// assignment run. There is one active roster being matched at a time,
// so commit and clear serialize on a single named lock.
//
// The lock is a document in the match_locks collection, so it survives
// process restarts. Acquisition is non-blocking: a second caller gets
// ErrHeld immediately instead of queueing. A TTL guards against a
// crashed holder wedging the system; an expired lock can be taken over.
package runlock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
)

// AssignmentRun is the lock name guarding preview/commit/clear runs.
const AssignmentRun = "assignment_run"

// ErrHeld is returned by Acquire when another run is in flight.
var ErrHeld = errors.New("an assignment run is already in progress")

type lockDoc struct {
	Name       string    `bson:"_id"`
	Token      string    `bson:"token"`
	Holder     string    `bson:"holder"`
	AcquiredAt time.Time `bson:"acquired_at"`
	ExpiresAt  time.Time `bson:"expires_at"`
}

// Lock manages named advisory locks in the match_locks collection.
type Lock struct {
	c   *mongo.Collection
	ttl time.Duration
}

// New returns a Lock with the given time-to-live. A non-positive ttl
// defaults to five minutes.
func New(db *mongo.Database, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Lock{c: db.Collection("match_locks"), ttl: ttl}
}

// Acquire takes the named lock for holder and returns a fencing token
// that must be presented to Release. It never blocks: if the lock is
// held and unexpired it returns ErrHeld.
func (l *Lock) Acquire(ctx context.Context, name, holder string) (string, error) {
	now := time.Now().UTC()
	doc := lockDoc{
		Name:       name,
		Token:      uuid.NewString(),
		Holder:     holder,
		AcquiredAt: now,
		ExpiresAt:  now.Add(l.ttl),
	}

	_, err := l.c.InsertOne(ctx, doc)
	if err == nil {
		return doc.Token, nil
	}
	if !wafflemongo.IsDup(err) {
		return "", err
	}

	// A lock document exists. Take it over only if it has expired.
	res, err := l.c.UpdateOne(ctx,
		bson.M{"_id": name, "expires_at": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{
			"token":       doc.Token,
			"holder":      holder,
			"acquired_at": now,
			"expires_at":  now.Add(l.ttl),
		}},
	)
	if err != nil {
		return "", err
	}
	if res.ModifiedCount == 0 {
		return "", ErrHeld
	}
	return doc.Token, nil
}

// Release frees the named lock if token still owns it. Releasing a lock
// that expired and was taken over is a no-op, which is the safe outcome:
// the new holder keeps it.
func (l *Lock) Release(ctx context.Context, name, token string) error {
	_, err := l.c.DeleteOne(ctx, bson.M{"_id": name, "token": token})
	return err
}

// Holder reports who currently holds the named lock, if anyone.
func (l *Lock) Holder(ctx context.Context, name string) (holder string, held bool, err error) {
	var doc lockDoc
	err = l.c.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if time.Now().UTC().After(doc.ExpiresAt) {
		return "", false, nil
	}
	return doc.Holder, true, nil
}
