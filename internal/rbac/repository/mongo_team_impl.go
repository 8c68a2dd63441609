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

func (r *MongoRepository) FindTeamByID(ctx context.Context, id string) (*model.Team, error) {
	var team model.Team
	err := r.Teams.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *MongoRepository) FindTeamByName(ctx context.Context, name string) (*model.Team, error) {
	var team model.Team
	err := r.Teams.FindOne(ctx, bson.M{"name": name}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *MongoRepository) CreateTeam(ctx context.Context, team *model.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now

	_, err := r.Teams.InsertOne(ctx, team)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoRepository) AddMember(ctx context.Context, teamID, userID string) error {
	res, err := r.Teams.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{
		"$addToSet": bson.M{"member_ids": userID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	res, err := r.Teams.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{
		"$pull": bson.M{"member_ids": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetTeamLead only matches when the new lead is already a member, keeping
// the lead-is-a-member invariant inside a single document update.
func (r *MongoRepository) SetTeamLead(ctx context.Context, teamID, userID string) error {
	res, err := r.Teams.UpdateOne(ctx, bson.M{"_id": teamID, "member_ids": userID}, bson.M{
		"$set": bson.M{
			"team_lead_id": userID,
			"updated_at":   time.Now(),
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
