package repository

import (
	"context"
	"errors"

	"crmrbac/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetOwnership projects only the ownership fields of a resource document.
func (r *MongoRepository) GetOwnership(ctx context.Context, collection, resourceID string) (*model.Ownership, error) {
	opts := options.FindOne().SetProjection(bson.M{
		"assigned_to":  1,
		"co_assignees": 1,
		"created_by":   1,
	})

	var ownership model.Ownership
	err := r.DB.Collection(collection).FindOne(ctx, bson.M{"_id": resourceID}, opts).Decode(&ownership)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &ownership, nil
}

// OwnershipQuery turns a visibility filter into a Mongo query fragment for
// list endpoints: resources owned by any team member, or created by the
// caller.
func OwnershipQuery(f *model.VisibilityFilter) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"assigned_to": bson.M{"$in": f.MemberIDs}},
			bson.M{"co_assignees": bson.M{"$in": f.MemberIDs}},
			bson.M{"created_by": f.CreatorID},
		},
	}
}
