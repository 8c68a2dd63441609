package repository

import (
	"context"
	"errors"
	"time"

	"crmrbac/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *MongoRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoRepository) FindUsersByRole(ctx context.Context, roleID string) ([]*model.User, error) {
	cursor, err := r.Users.Find(ctx, bson.M{"role_id": roleID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoRepository) CountUsersByRole(ctx context.Context, roleID string) (int64, error) {
	return r.Users.CountDocuments(ctx, bson.M{"role_id": roleID})
}

func (r *MongoRepository) UpdateUserRole(ctx context.Context, userID, roleID string) error {
	res, err := r.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"role_id": roleID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SaveEffectivePermissions replaces the whole denormalized set in one
// update so concurrent readers never observe a half-applied override set.
func (r *MongoRepository) SaveEffectivePermissions(ctx context.Context, userID string, codes []string, computedAt time.Time) error {
	if codes == nil {
		codes = []string{}
	}
	res, err := r.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"effective_permissions":     codes,
			"permissions_last_computed": computedAt,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) InvalidateEffectivePermissions(ctx context.Context, userID string) error {
	_, err := r.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$unset": bson.M{"permissions_last_computed": ""},
	})
	return err
}

// SetOverride replaces any prior override for the same code, expired or
// not, keeping at most one entry per (user, permission_code). The
// replacement is a single document update: a concurrent reader sees either
// the old override or the new one, never a document with the code missing.
func (r *MongoRepository) SetOverride(ctx context.Context, userID string, override model.Override) error {
	res, err := r.Users.UpdateOne(ctx, bson.M{"_id": userID}, overrideReplacePipeline(override))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// overrideReplacePipeline rewrites permission_overrides in one $set:
// every entry for other codes is kept, the entry for this code (if any) is
// dropped, and the new override is appended.
func overrideReplacePipeline(override model.Override) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"permission_overrides": bson.M{
				"$concatArrays": bson.A{
					bson.M{"$filter": bson.M{
						"input": bson.M{"$ifNull": bson.A{"$permission_overrides", bson.A{}}},
						"as":    "ov",
						"cond":  bson.M{"$ne": bson.A{"$$ov.permission_code", override.PermissionCode}},
					}},
					bson.A{bson.M{"$literal": override}},
				},
			},
		}}},
	}
}

func (r *MongoRepository) RemoveOverride(ctx context.Context, userID, permissionCode string) error {
	res, err := r.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{
			"permission_overrides": bson.M{"permission_code": permissionCode},
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) SetTeam(ctx context.Context, userID, teamID string, isTeamLead bool) error {
	update := bson.M{
		"$set": bson.M{
			"team_id":      teamID,
			"is_team_lead": isTeamLead,
		},
	}
	if teamID == "" {
		update = bson.M{
			"$unset": bson.M{"team_id": ""},
			"$set":   bson.M{"is_team_lead": false},
		}
	}
	res, err := r.Users.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) FindDirectReports(ctx context.Context, managerID string) ([]string, error) {
	cursor, err := r.Users.Find(ctx, bson.M{"reports_to": managerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}
