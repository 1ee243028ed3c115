package review

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds customer reviews.
const Collection = "customer_reviews"

type mongoRepo struct{ coll *mongo.Collection }

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepo{coll: db.Collection(Collection)}
}

func (r *mongoRepo) Insert(ctx context.Context, rv *Review) error {
	res, err := r.coll.InsertOne(ctx, rv)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		rv.ID = id
	}
	return nil
}

func (r *mongoRepo) FindByShopName(ctx context.Context, shopName string) ([]*Review, error) {
	cur, err := r.coll.Find(ctx, shopNameFilter(shopName),
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cur.Close(ctx)

	reviews := []*Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}

func shopNameFilter(shopName string) bson.M {
	return bson.M{"shop_name": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(shopName) + "$",
		Options: "i",
	}}
}
