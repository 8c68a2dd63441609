package repository

import (
	"context"
	"errors"
	"time"

	"crmrbac/internal/rbac/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *MongoRepository) FindRoleByID(ctx context.Context, id string) (*model.Role, error) {
	var role model.Role
	err := r.Roles.FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *MongoRepository) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.Roles.FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *MongoRepository) CreateRole(ctx context.Context, role *model.Role) error {
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	now := time.Now()
	role.CreatedAt = now
	role.UpdatedAt = now

	_, err := r.Roles.InsertOne(ctx, role)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateRole rewrites the mutable fields. users_count is deliberately not
// part of the $set; it only moves through IncUsersCount.
func (r *MongoRepository) UpdateRole(ctx context.Context, role *model.Role) error {
	role.UpdatedAt = time.Now()
	res, err := r.Roles.UpdateOne(ctx, bson.M{"_id": role.ID}, bson.M{
		"$set": bson.M{
			"display_name":  role.DisplayName,
			"description":   role.Description,
			"is_active":     role.IsActive,
			"permissions":   role.Permissions,
			"max_team_size": role.MaxTeamSize,
			"updated_at":    role.UpdatedAt,
			"updated_by":    role.UpdatedBy,
		},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) DeleteRole(ctx context.Context, id string) error {
	res, err := r.Roles.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) ListRoles(ctx context.Context, filter model.RoleFilter) ([]*model.Role, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	if filter.Name != "" {
		query["name"] = filter.Name
	}

	cursor, err := r.Roles.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []*model.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *MongoRepository) CountCustomRoles(ctx context.Context) (int64, error) {
	return r.Roles.CountDocuments(ctx, bson.M{"type": model.RoleTypeCustom})
}

// IncUsersCount is a best-effort single-document atomic counter move. The
// filter floors decrements at zero.
func (r *MongoRepository) IncUsersCount(ctx context.Context, id string, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["users_count"] = bson.M{"$gte": int64(-delta)}
	}
	_, err := r.Roles.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"users_count": int64(delta)},
	})
	return err
}
