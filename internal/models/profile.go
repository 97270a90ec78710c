package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Social struct {
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// Experience is an embedded sub-record of Profile; its ID is assigned by the
// repository on insertion and is only addressable through the parent profile.
type Experience struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time          `bson:"from" json:"from"`
	To          *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Company        string             `bson:"company,omitempty" json:"company,omitempty"`
	Website        string             `bson:"website,omitempty" json:"website,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Status         string             `bson:"status" json:"status"`
	GithubUsername string             `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Skills         []string           `bson:"skills" json:"skills"`
	Social         Social             `bson:"social,omitempty" json:"social"`
	Experience     []Experience       `bson:"experience" json:"experience"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// UserSummary is the denormalized slice of the owning user attached to
// profile reads (the only user fields public profile views expose).
type UserSummary struct {
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar" json:"avatar"`
}

// ProfileView is a Profile joined with its owner's public fields.
type ProfileView struct {
	Profile `bson:",inline"`
	Owner   UserSummary `bson:"owner" json:"owner"`
}
