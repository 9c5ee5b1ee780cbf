package services

import (
	"context"
	"errors"
	"time"

	"agency-crm/backend/logging"
	"agency-crm/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	allocateAttempts = 5
	allocateBackoff  = 25 * time.Millisecond
)

// SequenceService hands out gap-free, monotonically increasing serial numbers
// per counter key. The increment is a single FindOneAndUpdate with $inc so two
// concurrent callers can never observe the same value.
type SequenceService struct {
	CountersCollection *mongo.Collection
}

func NewSequenceService(countersCollection *mongo.Collection) *SequenceService {
	return &SequenceService{CountersCollection: countersCollection}
}

// AllocateSerial atomically increments the counter for key and returns the new
// value. A fresh key is created implicitly at 0, so the first allocation
// returns 1. Transient storage conflicts are retried internally; after the
// retry budget is spent the caller gets ErrAllocationFailed and must not
// fabricate an id.
func (s *SequenceService) AllocateSerial(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, validationError("counter key must not be empty")
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"seq": 1}}

	var lastErr error
	for attempt := 0; attempt < allocateAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, allocationFailed("allocation for %q cancelled: %v", key, ctx.Err())
			case <-time.After(time.Duration(attempt) * allocateBackoff):
			}
		}

		var counter models.Counter
		err := s.CountersCollection.FindOneAndUpdate(ctx, bson.M{"_id": key}, update, opts).Decode(&counter)
		if err == nil {
			return counter.Seq, nil
		}
		lastErr = err
		if !isTransientAllocationError(err) {
			break
		}
		logging.Logger.Warnf("retrying serial allocation for %q after transient error: %v", key, err)
	}

	logging.Logger.Errorf("serial allocation for %q failed: %v", key, lastErr)
	return 0, allocationFailed("could not allocate serial for %q", key)
}

// CurrentValue returns the counter's current cursor without advancing it.
// A counter that has never allocated reports 0.
func (s *SequenceService) CurrentValue(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, validationError("counter key must not be empty")
	}
	var counter models.Counter
	err := s.CountersCollection.FindOne(ctx, bson.M{"_id": key}).Decode(&counter)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, allocationFailed("could not read counter %q", key)
	}
	return counter.Seq, nil
}

// ResetCounter zeroes the counter for key. Resetting while entities issued
// from this counter still exist would reintroduce duplicate serial ids, so the
// reset refuses unless entityCollection is verified empty. There is no force
// override.
func (s *SequenceService) ResetCounter(ctx context.Context, key string, entityCollection *mongo.Collection) error {
	if key == "" {
		return validationError("counter key must not be empty")
	}
	count, err := entityCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return allocationFailed("could not verify %q collection is empty", key)
	}
	if count > 0 {
		return validationError("refusing to reset counter %q: %d documents still exist in the target collection", key, count)
	}

	_, err = s.CountersCollection.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"seq": int64(0)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return allocationFailed("could not reset counter %q", key)
	}
	logging.Logger.Warnf("counter %q reset to 0", key)
	return nil
}

// isTransientAllocationError reports whether the increment may succeed on
// retry. A duplicate key error is the standard race on the upsert path when
// two callers create a fresh counter at once.
func isTransientAllocationError(err error) bool {
	if mongo.IsDuplicateKeyError(err) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 112 = WriteConflict
		return cmdErr.Code == 112 || cmdErr.HasErrorLabel("TransientTransactionError")
	}
	return false
}
