package repository

import (
	"context"
	"errors"

	"crmrbac/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepository) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	cursor, err := r.Permissions.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var perms []*model.Permission
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *MongoRepository) FindPermissionByCode(ctx context.Context, code string) (*model.Permission, error) {
	var perm model.Permission
	err := r.Permissions.FindOne(ctx, bson.M{"code": code}).Decode(&perm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

func (r *MongoRepository) FindPermissionsByCodes(ctx context.Context, codes []string) ([]*model.Permission, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	cursor, err := r.Permissions.Find(ctx, bson.M{"code": bson.M{"$in": codes}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var perms []*model.Permission
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// SeedPermissions upserts catalog entries by code. Existing entries keep
// their _id; metadata is refreshed from the seed.
func (r *MongoRepository) SeedPermissions(ctx context.Context, perms []*model.Permission) error {
	if len(perms) == 0 {
		return nil
	}

	writeModels := make([]mongo.WriteModel, 0, len(perms))
	for _, p := range perms {
		update := bson.M{
			"$set": bson.M{
				"category":     p.Category,
				"display_name": p.DisplayName,
				"description":  p.Description,
				"scope":        p.Scope,
				"resource":     p.Resource,
				"action":       p.Action,
			},
			"$setOnInsert": bson.M{
				"_id":  p.Code,
				"code": p.Code,
			},
		}
		writeModels = append(writeModels, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"code": p.Code}).
			SetUpdate(update).
			SetUpsert(true))
	}

	_, err := r.Permissions.BulkWrite(ctx, writeModels, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *MongoRepository) CountPermissionsByCategory(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.Permissions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}
