package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	mongorepo "github.com/devconnect/backend/internal/repositories/mongo"

	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/utils"
)

// ProfileInput carries a partial profile update. Nil fields are left
// untouched on an existing profile; Skills is the raw comma-separated form.
type ProfileInput struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GithubUsername *string
	Skills         *string
	Youtube        *string
	Twitter        *string
	Facebook       *string
	Linkedin       *string
	Instagram      *string
}

type ExperienceInput struct {
	Title       string     `validate:"required"`
	Company     string     `validate:"required"`
	Location    string
	From        time.Time  `validate:"required"`
	To          *time.Time
	Current     bool
	Description string
}

type ProfileService interface {
	CreateOrUpdate(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*models.Profile, error)
	GetMe(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, error)
	List(ctx context.Context) ([]models.ProfileView, error)
	GetByUser(ctx context.Context, targetID primitive.ObjectID) (*models.ProfileView, error)
	DeleteWithUser(ctx context.Context, userID primitive.ObjectID) error
	AddExperience(ctx context.Context, userID primitive.ObjectID, in ExperienceInput) (*models.Profile, error)
	ReplaceExperience(ctx context.Context, userID, expID primitive.ObjectID, in ExperienceInput) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID primitive.ObjectID) error
}

type profileService struct {
	profiles mongorepo.ProfileRepository
	users    mongorepo.UserRepository
}

func NewProfileService(profiles mongorepo.ProfileRepository, users mongorepo.UserRepository) ProfileService {
	return &profileService{profiles: profiles, users: users}
}

// SplitSkills turns "a, b , c" into ["a","b","c"]: split on commas, trim each
// token, drop tokens that are empty after trimming. Order is preserved.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// profileParams holds the mandatory upsert fields, pre-trimmed so
// whitespace-only input fails the required tag.
type profileParams struct {
	Status string `validate:"required"`
	Skills string `validate:"required"`
}

var profileMessages = map[string]string{
	"status": "status is required",
	"skills": "skills is required",
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func (s *profileService) CreateOrUpdate(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*models.Profile, error) {
	const op = "ProfileService.CreateOrUpdate"

	params := profileParams{Status: trimmed(in.Status), Skills: trimmed(in.Skills)}
	if err := validate.Struct(params); err != nil {
		return nil, utils.Ev(op, validationFields(err, profileMessages)...)
	}

	skills := SplitSkills(*in.Skills)
	upd := mongorepo.ProfileUpdate{
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		Status:         in.Status,
		GithubUsername: in.GithubUsername,
		Skills:         &skills,
		Youtube:        in.Youtube,
		Twitter:        in.Twitter,
		Facebook:       in.Facebook,
		Linkedin:       in.Linkedin,
		Instagram:      in.Instagram,
	}

	p, err := s.profiles.Upsert(ctx, userID, upd)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}
	return p, nil
}

func (s *profileService) GetMe(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, error) {
	const op = "ProfileService.GetMe"

	p, err := s.profiles.GetViewByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "there is no profile for this user", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *profileService) List(ctx context.Context) ([]models.ProfileView, error) {
	const op = "ProfileService.List"

	out, err := s.profiles.ListViews(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	return out, nil
}

func (s *profileService) GetByUser(ctx context.Context, targetID primitive.ObjectID) (*models.ProfileView, error) {
	const op = "ProfileService.GetByUser"

	p, err := s.profiles.GetViewByUserID(ctx, targetID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

// DeleteWithUser removes the profile, then the user. The two deletes are
// independent: if the second fails the profile is already gone and the call
// reports the failure without rolling back.
func (s *profileService) DeleteWithUser(ctx context.Context, userID primitive.ObjectID) error {
	const op = "ProfileService.DeleteWithUser"

	if err := s.profiles.Delete(ctx, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete profile", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete user", err)
	}
	return nil
}

var experienceMessages = map[string]string{
	"title":   "title is required",
	"company": "company is required",
	"from":    "from date is required",
}

func validateExperience(op string, in ExperienceInput) error {
	// in is a copy; trimming here keeps whitespace-only values out of the
	// required checks without mutating the caller's input.
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	if err := validate.Struct(in); err != nil {
		return utils.Ev(op, validationFields(err, experienceMessages)...)
	}
	return nil
}

func experienceFromInput(in ExperienceInput) models.Experience {
	return models.Experience{
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
}

func (s *profileService) AddExperience(ctx context.Context, userID primitive.ObjectID, in ExperienceInput) (*models.Profile, error) {
	const op = "ProfileService.AddExperience"

	if err := validateExperience(op, in); err != nil {
		return nil, err
	}

	exp := experienceFromInput(in)
	exp.ID = primitive.NewObjectID()

	p, err := s.profiles.PushExperience(ctx, userID, exp)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "there is no profile for this user", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to add experience", err)
	}
	return p, nil
}

func (s *profileService) ReplaceExperience(ctx context.Context, userID, expID primitive.ObjectID, in ExperienceInput) (*models.Profile, error) {
	const op = "ProfileService.ReplaceExperience"

	if err := validateExperience(op, in); err != nil {
		return nil, err
	}

	p, err := s.profiles.ReplaceExperience(ctx, userID, expID, experienceFromInput(in))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to replace experience", err)
	}

	// No match: tell the caller whether the profile or the entry is missing.
	if _, gerr := s.profiles.GetByUserID(ctx, userID); gerr != nil {
		if errors.Is(gerr, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "there is no profile for this user", gerr)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to replace experience", gerr)
	}
	return nil, utils.E(utils.CodeNotFound, op, "experience not found", err)
}

func (s *profileService) RemoveExperience(ctx context.Context, userID, expID primitive.ObjectID) error {
	const op = "ProfileService.RemoveExperience"

	removed, err := s.profiles.PullExperience(ctx, userID, expID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "there is no profile for this user", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to remove experience", err)
	}
	if !removed {
		return utils.E(utils.CodeNotFound, op, "experience not found", nil)
	}
	return nil
}
