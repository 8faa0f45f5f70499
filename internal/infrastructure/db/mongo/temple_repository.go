package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alayatales/temple-api/internal/core/domain"
)

const collectionTemples = "temples"

type TempleRepository struct {
	col *mongo.Collection
}

func NewTempleRepository(db *mongo.Database) *TempleRepository {
	return &TempleRepository{col: db.Collection(collectionTemples)}
}

type mongoTemple struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Location    string             `bson:"location"`
	Timings     []domain.Timing    `bson:"timings"`
	Images      []string           `bson:"images"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// Create inserts a new temple document and returns it with its generated id.
func (r *TempleRepository) Create(ctx context.Context, t *domain.Temple) (*domain.Temple, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoTemple(t)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert temple: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a temple. Ids that are not valid ObjectIDs are reported
// as not found.
func (r *TempleRepository) FindByID(ctx context.Context, id string) (*domain.Temple, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTempleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTemple
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTempleNotFound
		}
		return nil, fmt.Errorf("find temple: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns temples in insertion order, optionally filtered by a
// case-insensitive substring match on name, location or description.
func (r *TempleRepository) List(ctx context.Context, query string) ([]*domain.Temple, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, searchFilter(query), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list temples: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoTemple
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode temples: %w", err)
	}

	temples := make([]*domain.Temple, 0, len(docs))
	for i := range docs {
		temples = append(temples, docs[i].toDomain())
	}
	return temples, nil
}

// Replace overwrites the whole document identified by t.ID.
func (r *TempleRepository) Replace(ctx context.Context, t *domain.Temple) (*domain.Temple, error) {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return nil, domain.ErrTempleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoTemple(t)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("replace temple: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTempleNotFound
	}
	return doc.toDomain(), nil
}

func (r *TempleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTempleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete temple: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTempleNotFound
	}
	return nil
}

func (r *TempleRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count temples: %w", err)
	}
	return n, nil
}

// CountByLocation groups temples by location, largest groups first.
func (r *TempleRepository) CountByLocation(ctx context.Context, limit int) ([]domain.LocationCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, locationPipeline(limit))
	if err != nil {
		return nil, fmt.Errorf("aggregate locations: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Location string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}

	out := make([]domain.LocationCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LocationCount{Location: row.Location, Count: row.Count})
	}
	return out, nil
}

// EnsureIndexes creates the indexes used by listing and the location breakdown.
func (r *TempleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func searchFilter(query string) bson.M {
	if query == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"location": re},
		bson.M{"description": re},
	}}
}

func locationPipeline(limit int) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$location"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return pipeline
}

func toMongoTemple(t *domain.Temple) mongoTemple {
	return mongoTemple{
		Name:        t.Name,
		Description: t.Description,
		Location:    t.Location,
		Timings:     t.Timings,
		Images:      t.Images,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (d *mongoTemple) toDomain() *domain.Temple {
	timings := d.Timings
	if timings == nil {
		timings = []domain.Timing{}
	}
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &domain.Temple{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Location:    d.Location,
		Timings:     timings,
		Images:      images,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}
