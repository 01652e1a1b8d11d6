// Package mongo implements storage.Storage on MongoDB.
//
// Students live in the "students" collection keyed by an int64 _id. Ids are
// allocated from a sequence document in the "counters" collection.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusdev/student-registry/internal/config"
	"github.com/campusdev/student-registry/internal/types"
)

const (
	studentsCollection = "students"
	countersCollection = "counters"
	studentsCounterID  = "students"
)

type studentDoc struct {
	ID     int64  `bson:"_id"`
	Name   string `bson:"name"`
	Course string `bson:"course"`
	Email  string `bson:"email"`
}

func toDoc(s types.Student) studentDoc {
	return studentDoc{ID: s.ID, Name: s.Name, Course: s.Course, Email: s.Email}
}

func (d studentDoc) student() types.Student {
	return types.Student{ID: d.ID, Name: d.Name, Course: d.Course, Email: d.Email}
}

// Mongo stores students in a MongoDB database.
type Mongo struct {
	client   *mongo.Client
	students *mongo.Collection
	counters *mongo.Collection
}

// New connects to cfg.Storage.MongoURI and pings the server.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Storage.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo.New: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.New: ping: %w", err)
	}

	db := client.Database(cfg.Storage.MongoDatabase)
	return &Mongo{
		client:   client,
		students: db.Collection(studentsCollection),
		counters: db.Collection(countersCollection),
	}, nil
}

func (m *Mongo) FindAll(ctx context.Context) ([]types.Student, error) {
	cursor, err := m.students.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("FindAll: find: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []studentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("FindAll: decode: %w", err)
	}

	students := make([]types.Student, 0, len(docs))
	for _, d := range docs {
		students = append(students, d.student())
	}
	return students, nil
}

func (m *Mongo) FindByID(ctx context.Context, id int64) (types.Student, bool, error) {
	var doc studentDoc
	err := m.students.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Student{}, false, nil
		}
		return types.Student{}, false, fmt.Errorf("FindByID: find: %w", err)
	}
	return doc.student(), true, nil
}

// Save allocates an id when student.ID is zero, otherwise raises the
// sequence to at least student.ID. The document is then replaced (or
// inserted) under its id.
func (m *Mongo) Save(ctx context.Context, student types.Student) (types.Student, error) {
	if student.ID == 0 {
		id, err := m.nextID(ctx)
		if err != nil {
			return types.Student{}, fmt.Errorf("Save: %w", err)
		}
		student.ID = id
	} else {
		_, err := m.counters.UpdateOne(ctx,
			bson.M{"_id": studentsCounterID},
			bson.M{"$max": bson.M{"seq": student.ID}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return types.Student{}, fmt.Errorf("Save: raise sequence: %w", err)
		}
	}

	_, err := m.students.ReplaceOne(ctx,
		bson.M{"_id": student.ID},
		toDoc(student),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: replace: %w", err)
	}

	return student, nil
}

func (m *Mongo) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": studentsCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	return counter.Seq, nil
}

func (m *Mongo) DeleteByID(ctx context.Context, id int64) error {
	if _, err := m.students.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}
