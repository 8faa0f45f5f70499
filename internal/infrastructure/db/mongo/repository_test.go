package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alayatales/temple-api/internal/core/domain"
)

func TestTempleRepository_InvalidIDIsNotFound(t *testing.T) {
	repo := &TempleRepository{}
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Replace(ctx, &domain.Temple{ID: "zzz"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, ""), domain.ErrNotFound)
}

func TestUserRepository_InvalidIDIsNotFound(t *testing.T) {
	_, err := (&UserRepository{}).FindByID(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchFilter(t *testing.T) {
	assert.Empty(t, searchFilter(""))

	f := searchFilter("sri (ranga)")
	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 3)

	re := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, `sri \(ranga\)`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestLocationPipeline(t *testing.T) {
	assert.Len(t, locationPipeline(0), 2)

	p := locationPipeline(5)
	require.Len(t, p, 3)
	assert.Equal(t, "$limit", p[2][0].Key)
	assert.Equal(t, 5, p[2][0].Value)
}

func TestTempleMapping(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	oid := primitive.NewObjectID()
	in := &domain.Temple{
		ID:          oid.Hex(),
		Name:        "Brihadeeswarar",
		Description: "Chola era",
		Location:    "Thanjavur",
		Timings:     []domain.Timing{{MorningOpening: "6", MorningClosing: "12", EveningOpening: "16", EveningClosing: "20"}},
		Images:      []string{"/uploads/1-a.jpg"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	doc := toMongoTemple(in)
	doc.ID = oid
	out := doc.toDomain()
	assert.Equal(t, in, out)

	empty := (&mongoTemple{ID: oid}).toDomain()
	assert.NotNil(t, empty.Timings)
	assert.NotNil(t, empty.Images)
}

func TestUserMapping(t *testing.T) {
	oid := primitive.NewObjectID()
	in := &domain.User{ID: oid.Hex(), Username: "alice", PasswordHash: "h", Role: domain.RoleAdmin}

	doc := toMongoUser(in)
	assert.Equal(t, oid, doc.ID)
	assert.Equal(t, in, doc.toDomain())

	assert.True(t, toMongoUser(&domain.User{Username: "bob"}).ID.IsZero())
}
