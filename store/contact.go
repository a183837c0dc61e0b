package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"EstateHub/cache"
	"EstateHub/config"
	"EstateHub/models"
)

type ContactStore struct {
	contacts *mongo.Collection
	cache    *cache.Cache
}

func NewContactStore(c *cache.Cache) *ContactStore {
	return &ContactStore{
		contacts: config.GetCollection(config.EnvOr("MONGODB_COLLECTION_CONTACTS", "contacts")),
		cache:    c,
	}
}

func (s *ContactStore) Create(ctx context.Context, req models.ContactRequest) (*models.Contact, error) {
	now := time.Now()
	contact := models.Contact{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		ListingID: req.ListingID,
		Status:    models.ContactStatusNew,
		Notes:     []models.ContactNote{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.contacts.InsertOne(ctx, contact); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &contact, nil
}

func (s *ContactStore) GetAll(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := s.contacts.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []models.Contact
	for cursor.Next(ctx) {
		var contact models.Contact
		if err := cursor.Decode(&contact); err != nil {
			continue
		}
		contacts = append(contacts, contact)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *ContactStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	var contact models.Contact
	err := s.contacts.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *ContactStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.contacts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *ContactStore) AddNote(ctx context.Context, id primitive.ObjectID, note models.ContactNote) error {
	res, err := s.contacts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"notes": note},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *ContactStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.contacts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *ContactStore) Stats(ctx context.Context) (*models.ContactStats, error) {
	stats := &models.ContactStats{ByStatus: map[string]int64{}}

	total, err := s.contacts.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats.Total = total

	cursor, err := s.contacts.Aggregate(ctx, []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		stats.ByStatus[row.Status] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *ContactStore) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Clear(ctx, StatsCachePrefix)
}
