package repositories

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoTimeout bounds every single collection call.
const DefaultMongoTimeout = 5 * time.Second

// mongoListFilter turns a search option into a case-insensitive substring match.
func mongoListFilter(opts ListOptions) bson.M {
	if opts.SearchField == "" || opts.SearchValue == "" {
		return bson.M{}
	}
	return bson.M{
		opts.SearchField: primitive.Regex{Pattern: regexp.QuoteMeta(opts.SearchValue), Options: "i"},
	}
}

// mongoFindOptions pages and sorts a Find call. _id is always the final sort key,
// which for ObjectIDs is insertion order.
func mongoFindOptions(opts ListOptions) *options.FindOptions {
	sort := bson.D{}
	if opts.SortField != "" {
		direction := 1
		if opts.SortDesc {
			direction = -1
		}
		sort = append(sort, bson.E{Key: opts.SortField, Value: direction})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	findOpts := options.Find().SetSort(sort)
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	return findOpts
}

// objectIDFilter matches a document by hex id. Malformed ids can never exist in
// the collection, so they are reported as not found.
func objectIDFilter(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return bson.M{"_id": oid}, nil
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case err == mongo.ErrNoDocuments:
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}

func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultMongoTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}
