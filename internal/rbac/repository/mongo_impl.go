package repository

import (
	"context"

	"crmrbac/internal/rbac/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements every repository interface over a single
// database handle.
type MongoRepository struct {
	Users       *mongo.Collection
	Roles       *mongo.Collection
	Permissions *mongo.Collection
	Teams       *mongo.Collection
	Assignments *mongo.Collection
	Audit       *mongo.Collection
	DB          *mongo.Database
	Client      *mongo.Client
}

func NewMongoRepository(db *mongo.Database, cfg *config.Config) *MongoRepository {
	return &MongoRepository{
		Users:       db.Collection(cfg.UsersCollection),
		Roles:       db.Collection(cfg.RolesCollection),
		Permissions: db.Collection(cfg.PermissionsCollection),
		Teams:       db.Collection(cfg.TeamsCollection),
		Assignments: db.Collection(cfg.AssignmentsCollection),
		Audit:       db.Collection(cfg.AuditCollection),
		DB:          db,
		Client:      db.Client(),
	}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	// 1. Roles: unique name
	idxRoleName := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_role_name"),
	}
	if _, err := r.Roles.Indexes().CreateOne(ctx, idxRoleName); err != nil {
		return err
	}

	// 2. Permissions: unique code
	idxPermCode := mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_permission_code"),
	}
	if _, err := r.Permissions.Indexes().CreateOne(ctx, idxPermCode); err != nil {
		return err
	}

	// 3. Teams: unique name
	idxTeamName := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_team_name"),
	}
	if _, err := r.Teams.Indexes().CreateOne(ctx, idxTeamName); err != nil {
		return err
	}

	// 4. Users: role lookup for recompute fan-out, reports_to for the
	// transitive team walk
	idxUsers := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "role_id", Value: 1}},
			Options: options.Index().SetName("idx_users_role"),
		},
		{
			Keys:    bson.D{{Key: "reports_to", Value: 1}},
			Options: options.Index().SetName("idx_users_reports_to"),
		},
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}},
			Options: options.Index().SetName("idx_users_team"),
		},
	}
	if _, err := r.Users.Indexes().CreateMany(ctx, idxUsers); err != nil {
		return err
	}

	// 5. Assignments: per-user history, newest first
	idxAssignments := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "assigned_at", Value: -1},
		},
		Options: options.Index().SetName("idx_assignments_user_time"),
	}
	if _, err := r.Assignments.Indexes().CreateOne(ctx, idxAssignments); err != nil {
		return err
	}

	// 6. Audit: time-ordered scans
	idxAudit := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_audit_created_at"),
	}
	_, err := r.Audit.Indexes().CreateOne(ctx, idxAudit)
	return err
}
