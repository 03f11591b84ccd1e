package service

import (
	"errors"
	"testing"
	"time"

	"blogmesh/internal/addressclient"
	"blogmesh/internal/auth"
	"blogmesh/internal/cache"
	"blogmesh/internal/config"
	"blogmesh/internal/dto"
	"blogmesh/internal/featureflags"
	"blogmesh/internal/models"
	"blogmesh/internal/repository"
	"blogmesh/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	addresses  *addressclient.Fake
	users      repository.UserRepository
	posts      repository.PostRepository
	categories repository.CategoryRepository
	comments   repository.CommentRepository
	tokens     *auth.Manager

	userSvc     *UserService
	postSvc     *PostService
	categorySvc *CategoryService
	commentSvc  *CommentService
	authSvc     *AuthService
}

func newTestEnv(t *testing.T, flags string) *testEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t, &models.User{}, &models.Category{}, &models.Post{}, &models.Comment{})

	env := &testEnv{
		db:         db,
		addresses:  addressclient.NewFake(),
		users:      repository.NewUserRepository(db),
		posts:      repository.NewPostRepository(db),
		categories: repository.NewCategoryRepository(db),
		comments:   repository.NewCommentRepository(db),
		tokens:     auth.NewManager("service-test-secret-with-32-characters", "blogmesh", "blogmesh-api", time.Minute, time.Hour),
	}
	enricher := NewEnricher(env.addresses, featureflags.NewManager(flags), 4)
	images := NewImageStore(&config.Config{ImageUploadDir: t.TempDir(), ImageMaxUploadSizeMB: 1})

	env.userSvc = NewUserService(env.users, env.addresses, enricher)
	env.postSvc = NewPostService(env.posts, env.users, env.categories, enricher, images)
	env.categorySvc = NewCategoryService(env.categories)
	env.commentSvc = NewCommentService(env.comments, env.posts, env.users)
	env.authSvc = NewAuthService(env.users, env.tokens, auth.NewRevoker(cache.NewStore(nil)))
	return env
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{FirstName: "Ada", LastName: "Lovelace", Contact: 5551234567, About: "writes", Email: email, Password: "hash", Role: models.RoleUser}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) category(t *testing.T, title string) *models.Category {
	t.Helper()
	c := &models.Category{Title: title, Description: "all about " + title}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) post(t *testing.T, title string, userID, categoryID uint) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: "body", ImageName: models.DefaultImageName, AddedDate: time.Now(), UserID: userID, CategoryID: categoryID}
	require.NoError(t, e.db.Omit("User", "Category").Create(p).Error)
	return p
}

func (e *testEnv) comment(t *testing.T, postID, userID uint) *models.Comment {
	t.Helper()
	c := &models.Comment{Content: "nice", PostID: postID, UserID: userID}
	require.NoError(t, e.db.Omit("User", "Post").Create(c).Error)
	return c
}

func testAddress(city string) dto.Address {
	return dto.Address{ID: 1, Lane1: "1 Main St", City: city, State: "CA", Zip: 94105}
}

func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	appErr := assertAppError(t, err, models.CodeValidation)
	if field != "" {
		require.Contains(t, appErr.Fields, field)
	}
}
