package idgen

import (
	"context"
	"log"
	"regexp"
	"time"

	"emporia/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NextSequence reserves the next sequence for a tag+day atomically via an
// upserted counter document. This avoids the read-parse-increment race of
// the scan path entirely.
func NextSequence(ctx context.Context, tag string, now time.Time) (int64, error) {
	counterID := tag + "-" + now.Format("060102")

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := db.CountersCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// NewCode returns the next date-scoped code for a collection, reserving the
// sequence atomically and falling back to the legacy scan when the counter
// is unavailable.
func NewCode(ctx context.Context, tag, field string, coll *mongo.Collection, now time.Time) (string, error) {
	seq, err := NextSequence(ctx, tag, now)
	if err == nil {
		return Format(Prefix(tag, now), seq), nil
	}

	log.Printf("Counter reservation for %s failed (%v), falling back to scan", tag, err)
	return GenerateSequentialCode(ctx, tag, now, &collectionCodes{coll: coll, field: field})
}

// collectionCodes adapts a Mongo collection to CodeStore over one string
// field.
type collectionCodes struct {
	coll  *mongo.Collection
	field string
}

func (c *collectionCodes) LatestCode(ctx context.Context, prefix string) (string, error) {
	filter := bson.M{c.field: bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}

	var doc bson.M
	err := c.coll.FindOne(ctx, filter,
		options.FindOne().SetSort(bson.D{{Key: c.field, Value: -1}}).
			SetProjection(bson.M{c.field: 1}),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	code, _ := doc[c.field].(string)
	return code, nil
}

func (c *collectionCodes) CountCodes(ctx context.Context, prefix string) (int64, error) {
	return c.coll.CountDocuments(ctx, bson.M{c.field: bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}})
}
