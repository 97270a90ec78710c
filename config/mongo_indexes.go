package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// users: one account per email address
	users := db.Collection("users")
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("uniq_email").
				SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	// profiles: exactly one profile per user, plus lookup helper on embedded ids
	profiles := db.Collection("profiles")
	_, err = profiles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user", Value: 1}},
			Options: options.Index().
				SetName("uniq_user").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "experience._id", Value: 1}},
			Options: options.Index().SetName("by_experience_id"),
		},
	})
	return err
}
