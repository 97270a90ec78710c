package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/utils"
)

// ProfileUpdate carries the fields of a partial profile update. Nil pointers
// mean "leave untouched"; only non-nil fields end up in the update document.
type ProfileUpdate struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GithubUsername *string
	Skills         *[]string
	Youtube        *string
	Twitter        *string
	Facebook       *string
	Linkedin       *string
	Instagram      *string
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	GetViewByUserID(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, error)
	ListViews(ctx context.Context) ([]models.ProfileView, error)
	Upsert(ctx context.Context, userID primitive.ObjectID, upd ProfileUpdate) (*models.Profile, error)
	Delete(ctx context.Context, userID primitive.ObjectID) error
	PushExperience(ctx context.Context, userID primitive.ObjectID, exp models.Experience) (*models.Profile, error)
	ReplaceExperience(ctx context.Context, userID, expID primitive.ObjectID, exp models.Experience) (*models.Profile, error)
	PullExperience(ctx context.Context, userID, expID primitive.ObjectID) (bool, error)
}

type profileRepo struct {
	col *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) ProfileRepository {
	return &profileRepo{col: db.Collection("profiles")}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

// ownerStages joins the owning user's public fields into each profile.
func ownerStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$owner",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"owner.password":   0,
			"owner.email":      0,
			"owner.created_at": 0,
		}}},
	}
}

func (r *profileRepo) GetViewByUserID(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, error) {
	pipeline := append([]bson.D{
		{{Key: "$match", Value: bson.M{"user": userID}}},
	}, ownerStages()...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProfileView
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, utils.ErrNotFound
	}
	return &out[0], nil
}

func (r *profileRepo) ListViews(ctx context.Context) ([]models.ProfileView, error) {
	pipeline := append([]bson.D{
		{{Key: "$sort", Value: bson.M{"created_at": -1}}},
	}, ownerStages()...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ProfileView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// buildProfileSet turns a ProfileUpdate into a sparse $set document.
// Social keys are addressed individually so untouched links survive.
func buildProfileSet(upd ProfileUpdate) bson.M {
	set := bson.M{}
	str := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	str("company", upd.Company)
	str("website", upd.Website)
	str("location", upd.Location)
	str("bio", upd.Bio)
	str("status", upd.Status)
	str("githubusername", upd.GithubUsername)
	if upd.Skills != nil {
		set["skills"] = *upd.Skills
	}
	str("social.youtube", upd.Youtube)
	str("social.twitter", upd.Twitter)
	str("social.facebook", upd.Facebook)
	str("social.linkedin", upd.Linkedin)
	str("social.instagram", upd.Instagram)
	return set
}

// upsertUpdateDoc keeps the update path disjoint from the experience array:
// profile fields travel under $set, while experience is only ever seeded
// (empty) on insert.
func upsertUpdateDoc(upd ProfileUpdate) bson.M {
	return bson.M{
		"$set": buildProfileSet(upd),
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC(),
			"experience": []models.Experience{},
		},
	}
}

// Upsert applies a partial update to the profile owned by userID, creating
// the profile in the same call when none exists yet.
func (r *profileRepo) Upsert(ctx context.Context, userID primitive.ObjectID, upd ProfileUpdate) (*models.Profile, error) {
	update := upsertUpdateDoc(upd)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p models.Profile
	err := r.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Delete(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"user": userID})
	return err
}

func pushExperienceDoc(exp models.Experience) bson.M {
	return bson.M{
		"$push": bson.M{
			"experience": bson.M{
				"$each":     []models.Experience{exp},
				"$position": 0,
			},
		},
	}
}

// PushExperience prepends the entry in a single update so concurrent writers
// to the same profile cannot lose each other's entries.
func (r *profileRepo) PushExperience(ctx context.Context, userID primitive.ObjectID, exp models.Experience) (*models.Profile, error) {
	update := pushExperienceDoc(exp)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Profile
	err := r.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplaceExperience overwrites the matched entry in place via the positional
// operator; the entry keeps its position and identifier.
func experienceFilter(userID, expID primitive.ObjectID) bson.M {
	return bson.M{"user": userID, "experience._id": expID}
}

func replaceExperienceDoc(exp models.Experience) bson.M {
	return bson.M{"$set": bson.M{"experience.$": exp}}
}

func (r *profileRepo) ReplaceExperience(ctx context.Context, userID, expID primitive.ObjectID, exp models.Experience) (*models.Profile, error) {
	exp.ID = expID

	filter := experienceFilter(userID, expID)
	update := replaceExperienceDoc(exp)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Profile
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PullExperience removes the matched entry atomically. Returns false when the
// profile exists but no entry carries expID; an unknown id never touches
// other entries.
func pullExperienceDoc(expID primitive.ObjectID) bson.M {
	return bson.M{"$pull": bson.M{"experience": bson.M{"_id": expID}}}
}

func (r *profileRepo) PullExperience(ctx context.Context, userID, expID primitive.ObjectID) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user": userID},
		pullExperienceDoc(expID),
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, utils.ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}
