package seed

import (
	"testing"
	"time"

	"blogmesh/internal/database"
	"blogmesh/internal/models"
	"blogmesh/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCategories_Idempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)

	first, err := Categories(db)
	require.NoError(t, err)
	require.Len(t, first, len(BuiltInCategories))

	second, err := Categories(db)
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(BuiltInCategories)), count)
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)
	s := NewSeeder(db, Options{SkipBcrypt: true, MaxDays: 30, RandomSeed: 42})

	res, err := s.Run(Counts{Users: 5, Posts: 20, CommentsPerPost: 3})
	require.NoError(t, err)
	require.Len(t, res.Users, 5)
	require.Len(t, res.Posts, 20)

	assert.Equal(t, models.RoleAdmin, res.Users[0].Role)
	for _, u := range res.Users[1:] {
		assert.Equal(t, models.RoleUser, u.Role)
	}

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 20)
	for _, p := range posts {
		assert.NotEmpty(t, p.Title)
		assert.Equal(t, models.DefaultImageName, p.ImageName)
		assert.WithinDuration(t, time.Now(), p.AddedDate, 31*24*time.Hour)
	}

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(res.Comments), comments)
	assert.LessOrEqual(t, res.Comments, 20*3)
}

func TestSeeder_HashesPasswords(t *testing.T) {
	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)
	s := NewSeeder(db, Options{})

	users, err := s.SeedUsers(1)
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, users[0].ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(DefaultPassword)))
}

func TestSeeder_ClearAll(t *testing.T) {
	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)
	s := NewSeeder(db, Options{SkipBcrypt: true})
	_, err := s.Run(Counts{Users: 3, Posts: 5, CommentsPerPost: 2})
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())

	for _, model := range []any{&models.User{}, &models.Post{}, &models.Comment{}, &models.Category{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}
}

func TestSeeder_DryRunWritesNothing(t *testing.T) {
	db := testutil.NewSQLiteDB(t, database.PersistentModels()...)
	s := NewSeeder(db, Options{DryRun: true, SkipBcrypt: true})

	res, err := s.Run(Counts{Users: 2, Posts: 4, CommentsPerPost: 1})
	require.NoError(t, err)
	assert.Len(t, res.Posts, 4)
	for _, p := range res.Posts {
		assert.NotZero(t, p.ID)
	}

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSeedPosts_RequiresUsersAndCategories(t *testing.T) {
	s := NewSeeder(nil, Options{DryRun: true})

	_, err := s.SeedPosts(nil, []models.Category{{ID: 1}}, 3)
	assert.Error(t, err)
}
