// Package store holds the MongoDB persistence layer. ListingStore is the
// chunked adapter: listings whose serialized size would blow past the
// per-document ceiling have their image list split across an overflow
// collection and reassembled transparently on read.
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

// Cache prefixes cleared by mutating listing operations.
const (
	ListingsCachePrefix = "listings"
	StatsCachePrefix    = "stats"
)

type ListingStore struct {
	listings  *mongo.Collection
	chunks    *mongo.Collection
	counters  *mongo.Collection
	cache     *cache.Cache
	sizeLimit int
	groupSize int
}

func NewListingStore(c *cache.Cache) *ListingStore {
	return &ListingStore{
		listings:  config.GetCollection(config.EnvOr("MONGODB_COLLECTION_LISTINGS", "listings")),
		chunks:    config.GetCollection(config.EnvOr("MONGODB_COLLECTION_CHUNKS", "listing_chunks")),
		counters:  config.GetCollection(config.EnvOr("MONGODB_COLLECTION_COUNTERS", "counters")),
		cache:     c,
		sizeLimit: config.EnvIntOr("LISTING_SIZE_LIMIT", DefaultSizeLimit),
		groupSize: config.EnvIntOr("LISTING_CHUNK_GROUP", DefaultGroupSize),
	}
}

// nextID issues the next listing identifier from the counters collection.
func (s *ListingStore) nextID(ctx context.Context) (int64, error) {
	res := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "listings"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// Create persists a new listing, splitting its images into overflow chunks
// when the full document would exceed the size ceiling. Chunks are written
// before the primary document; the primary is the commit point, so a failed
// chunk write cleans up and the listing never appears with missing images.
func (s *ListingStore) Create(ctx context.Context, input models.ListingInput) (int64, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	listing := models.Listing{
		ID:               id,
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		LongDescription:  input.LongDescription,
		Location:         input.Location,
		Price:            input.Price,
		Area:             input.Area,
		CompletionDate:   input.CompletionDate,
		Status:           input.Status,
		Spec:             input.Spec,
		Features:         input.Features,
		Images:           input.Images,
		Featured:         input.Featured,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	embedded, chunks, count := planChunks(&listing, s.sizeLimit, s.groupSize)
	listing.Images = embedded
	listing.ChunkCount = count

	if len(chunks) > 0 {
		docs := make([]interface{}, len(chunks))
		for i := range chunks {
			chunks[i].CreatedAt = now
			docs[i] = chunks[i]
		}
		if _, err := s.chunks.InsertMany(ctx, docs); err != nil {
			_, _ = s.chunks.DeleteMany(ctx, bson.M{"listingId": id})
			return 0, err
		}
	}

	if _, err := s.listings.InsertOne(ctx, listing); err != nil {
		_, _ = s.chunks.DeleteMany(ctx, bson.M{"listingId": id})
		return 0, err
	}

	s.invalidate(ctx)
	return id, nil
}

// GetAll returns listings ordered by creation time descending, images fully
// reassembled.
func (s *ListingStore) GetAll(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := s.listings.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	for cursor.Next(ctx) {
		var listing models.Listing
		if err := cursor.Decode(&listing); err != nil {
			continue
		}
		if listing.ChunkCount > 1 {
			if err := s.loadChunks(ctx, &listing); err != nil {
				return nil, err
			}
		}
		listings = append(listings, listing)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *ListingStore) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := s.listings.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if listing.ChunkCount > 1 {
		if err := s.loadChunks(ctx, &listing); err != nil {
			return nil, err
		}
	}
	return &listing, nil
}

// loadChunks appends the listing's overflow images after the embedded ones.
func (s *ListingStore) loadChunks(ctx context.Context, listing *models.Listing) error {
	cursor, err := s.chunks.Find(ctx,
		bson.M{"listingId": listing.ID},
		options.Find().SetSort(bson.D{{Key: "index", Value: 1}}),
	)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var chunks []models.ImageChunk
	for cursor.Next(ctx) {
		var chunk models.ImageChunk
		if err := cursor.Decode(&chunk); err != nil {
			continue
		}
		chunks = append(chunks, chunk)
	}
	if err := cursor.Err(); err != nil {
		return err
	}
	// An image update briefly leaves two chunk generations under the same
	// owning id; selectChunks keeps only the committed one.
	listing.Images = assembleImages(listing.Images, selectChunks(chunks, listing.ChunkCount))
	return nil
}

// Update overwrites the supplied fields and refreshes the update timestamp.
// A patch that carries an image list re-runs the chunking decision: the
// merged document is split afresh, the new chunks land first, the primary
// commits to them, and only then are the superseded chunks removed. Growth
// past the ceiling cannot silently violate the size invariant.
func (s *ListingStore) Update(ctx context.Context, id int64, patch models.ListingUpdate) (*models.Listing, error) {
	var existing models.Listing
	err := s.listings.FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.ShortDescription != nil {
		set["shortDescription"] = *patch.ShortDescription
	}
	if patch.LongDescription != nil {
		set["longDescription"] = *patch.LongDescription
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Area != nil {
		set["area"] = *patch.Area
	}
	if patch.CompletionDate != nil {
		set["completionDate"] = *patch.CompletionDate
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Spec != nil {
		set["spec"] = *patch.Spec
	}
	if patch.Features != nil {
		set["features"] = *patch.Features
	}

	if patch.Images != nil {
		// Size is judged over the document as it will be stored, so the
		// merge applies every patched field before splitting.
		merged := existing
		merged.Images = *patch.Images
		if patch.Title != nil {
			merged.Title = *patch.Title
		}
		if patch.ShortDescription != nil {
			merged.ShortDescription = *patch.ShortDescription
		}
		if patch.LongDescription != nil {
			merged.LongDescription = *patch.LongDescription
		}
		if patch.Location != nil {
			merged.Location = *patch.Location
		}
		if patch.Features != nil {
			merged.Features = *patch.Features
		}

		embedded, chunks, count := planChunks(&merged, s.sizeLimit, s.groupSize)

		// The superseded chunk documents stay until the primary commits to
		// the new layout; the new chunks get fresh ids so the old batch can
		// be removed precisely afterwards.
		oldIDs, err := s.chunkIDs(ctx, id)
		if err != nil {
			return nil, err
		}

		newIDs := make([]primitive.ObjectID, len(chunks))
		if len(chunks) > 0 {
			now := time.Now()
			docs := make([]interface{}, len(chunks))
			for i := range chunks {
				chunks[i].ID = primitive.NewObjectID()
				chunks[i].CreatedAt = now
				newIDs[i] = chunks[i].ID
				docs[i] = chunks[i]
			}
			if _, err := s.chunks.InsertMany(ctx, docs); err != nil {
				_, _ = s.chunks.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": newIDs}})
				return nil, err
			}
		}
		set["images"] = embedded
		set["chunkCount"] = count

		if _, err := s.listings.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
			_, _ = s.chunks.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": newIDs}})
			return nil, err
		}
		if len(oldIDs) > 0 {
			if _, err := s.chunks.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oldIDs}}); err != nil {
				return nil, err
			}
		}

		s.invalidate(ctx)
		return s.GetByID(ctx, id)
	}

	if _, err := s.listings.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.GetByID(ctx, id)
}

// chunkIDs lists the ids of a listing's current chunk documents.
func (s *ListingStore) chunkIDs(ctx context.Context, listingID int64) ([]primitive.ObjectID, error) {
	cursor, err := s.chunks.Find(ctx,
		bson.M{"listingId": listingID},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes the primary document and cascades to its chunks.
func (s *ListingStore) Delete(ctx context.Context, id int64) error {
	res, err := s.listings.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := s.chunks.DeleteMany(ctx, bson.M{"listingId": id}); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// IncrementViews bumps the view counter atomically. View counts tolerate
// cache staleness, so this is the one write that skips invalidation.
func (s *ListingStore) IncrementViews(ctx context.Context, id int64) error {
	res, err := s.listings.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"views": int64(1)},
		"$set": bson.M{"lastViewedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddRating folds one rating into the listing's running sum and count.
func (s *ListingStore) AddRating(ctx context.Context, id int64, value int) error {
	res, err := s.listings.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"ratingSum": float64(value), "ratingCount": int64(1)},
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

func (s *ListingStore) ToggleFeatured(ctx context.Context, id int64) (bool, error) {
	var listing models.Listing
	err := s.listings.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err == mongo.ErrNoDocuments {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	next := !listing.Featured
	_, err = s.listings.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"featured": next, "updatedAt": time.Now()},
	})
	if err != nil {
		return false, err
	}
	s.invalidate(ctx)
	return next, nil
}

// Stats aggregates the listing-side dashboard numbers.
func (s *ListingStore) Stats(ctx context.Context) (*models.ListingStats, error) {
	stats := &models.ListingStats{ByStatus: map[string]int64{}}

	total, err := s.listings.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats.Total = total

	featured, err := s.listings.CountDocuments(ctx, bson.M{"featured": true})
	if err != nil {
		return nil, err
	}
	stats.Featured = featured

	cursor, err := s.listings.Aggregate(ctx, []bson.M{
		{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"views": bson.M{"$sum": "$views"},
		}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
			Views  int64  `bson:"views"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		stats.ByStatus[row.Status] = row.Count
		stats.TotalViews += row.Views
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *ListingStore) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Clear(ctx, ListingsCachePrefix, StatsCachePrefix)
}
