package review

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review is a customer's rating of a shop.
type Review struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShopName string             `bson:"shop_name" json:"shop_name"`
	Rating   int                `bson:"rating" json:"rating"`
	Text     string             `bson:"review" json:"review"`
}

// SubmitRequest is the payload for posting a review.
type SubmitRequest struct {
	ShopName string `json:"shop_name" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Text     string `json:"review"`
}
