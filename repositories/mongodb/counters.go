package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// nextSequence atomically increments and returns the named counter.
// The wire contract requires numeric store-assigned IDs, so IDs come
// from a counters collection rather than ObjectIDs.
func nextSequence(ctx context.Context, db *DB, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", name, err)
	}

	return counter.Seq, nil
}
