package storage

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hobbymeet/models"
	apierrors "hobbymeet/utils/errors"
)

// ConnectMongo opens and pings the MongoDB deployment backing the meetup and
// people collections.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	log.Println("Connected to MongoDB")
	return client.Database("hobbymeet"), nil
}

// EnsureSeedData populates empty meetup/people collections with the
// development data set.
func EnsureSeedData(ctx context.Context, db *mongo.Database) error {
	meetups := db.Collection("meetups")
	count, err := meetups.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count == 0 {
		log.Println("No meetups found in MongoDB, seeding sample data...")
		var docs []any
		for _, m := range SeedMeetups(time.Now()) {
			docs = append(docs, m)
		}
		if _, err := meetups.InsertMany(ctx, docs); err != nil {
			return err
		}
	}

	people := db.Collection("people")
	count, err = people.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count == 0 {
		log.Println("No people found in MongoDB, seeding sample roster...")
		var docs []any
		for _, p := range SeedPeople() {
			docs = append(docs, p)
		}
		if _, err := people.InsertMany(ctx, docs); err != nil {
			return err
		}
	}
	return nil
}

type MongoMeetupRepo struct {
	collection *mongo.Collection
}

func NewMongoMeetupRepo(db *mongo.Database) *MongoMeetupRepo {
	return &MongoMeetupRepo{collection: db.Collection("meetups")}
}

func (r *MongoMeetupRepo) All(ctx context.Context) ([]models.Meetup, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var meetups []models.Meetup
	if err := cursor.All(ctx, &meetups); err != nil {
		return nil, err
	}
	return meetups, nil
}

func (r *MongoMeetupRepo) Get(ctx context.Context, id int64) (models.Meetup, bool, error) {
	var m models.Meetup
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Meetup{}, false, nil
	}
	if err != nil {
		return models.Meetup{}, false, err
	}
	return m, true, nil
}

func (r *MongoMeetupRepo) Insert(ctx context.Context, m models.Meetup) (models.Meetup, error) {
	// Numeric ids: take the current maximum and append. Fine at prototype
	// scale; a contended deployment would use a counter document.
	var last models.Meetup
	err := r.collection.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})).Decode(&last)
	if err != nil && err != mongo.ErrNoDocuments {
		return models.Meetup{}, err
	}
	m.ID = last.ID + 1
	if _, err := r.collection.InsertOne(ctx, m); err != nil {
		return models.Meetup{}, err
	}
	return m, nil
}

func (r *MongoMeetupRepo) Update(ctx context.Context, m models.Meetup) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apierrors.ErrNotFound
	}
	return nil
}

type MongoPeopleRepo struct {
	collection *mongo.Collection
}

func NewMongoPeopleRepo(db *mongo.Database) *MongoPeopleRepo {
	return &MongoPeopleRepo{collection: db.Collection("people")}
}

func (r *MongoPeopleRepo) All(ctx context.Context) ([]models.Person, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var people []models.Person
	if err := cursor.All(ctx, &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (r *MongoPeopleRepo) Get(ctx context.Context, id int64) (models.Person, bool, error) {
	var p models.Person
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Person{}, false, nil
	}
	if err != nil {
		return models.Person{}, false, err
	}
	return p, true, nil
}
