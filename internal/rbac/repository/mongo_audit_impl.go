package repository

import (
	"context"
	"time"

	"crmrbac/internal/rbac/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Role assignment history (append-only, never consulted during resolution)

func (r *MongoRepository) CreateAssignment(ctx context.Context, assignment *model.RoleAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now()
	}
	_, err := r.Assignments.InsertOne(ctx, assignment)
	return err
}

// RevokeActiveAssignments is the only mutation ever applied to assignment
// records: the status transition active -> revoked.
func (r *MongoRepository) RevokeActiveAssignments(ctx context.Context, userID, revokedBy string) error {
	now := time.Now()
	_, err := r.Assignments.UpdateMany(ctx,
		bson.M{"user_id": userID, "status": model.AssignmentStatusActive},
		bson.M{"$set": bson.M{
			"status":     model.AssignmentStatusRevoked,
			"revoked_by": revokedBy,
			"revoked_at": now,
		}},
	)
	return err
}

func (r *MongoRepository) FindAssignmentsByUser(ctx context.Context, userID string, page, size int) ([]*model.RoleAssignment, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	filter := bson.M{"user_id": userID}

	total, err := r.Assignments.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "assigned_at", Value: -1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))

	cursor, err := r.Assignments.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var results []*model.RoleAssignment
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// Audit sink (append-only)

func (r *MongoRepository) CreateAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.Audit.InsertOne(ctx, entry)
	return err
}
