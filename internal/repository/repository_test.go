package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"blogmesh/internal/cache"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"
	"blogmesh/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t, &models.User{}, &models.Category{}, &models.Post{}, &models.Comment{}, &models.Address{})
}

func newTestCache(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewStore(rdb), mr
}

func mustUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{FirstName: "Test", LastName: "User", Contact: 1234567890, About: "about", Email: email, Password: "hash", Role: models.RoleUser}
	require.NoError(t, db.Create(u).Error)
	return u
}

func mustCategory(t *testing.T, db *gorm.DB, title string) *models.Category {
	t.Helper()
	c := &models.Category{Title: title, Description: "description of " + title}
	require.NoError(t, db.Create(c).Error)
	return c
}

func mustPost(t *testing.T, db *gorm.DB, title string, userID, categoryID uint) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: "content", ImageName: models.DefaultImageName, AddedDate: time.Now(), UserID: userID, CategoryID: categoryID}
	require.NoError(t, db.Omit("User", "Category").Create(p).Error)
	return p
}

func mustComment(t *testing.T, db *gorm.DB, postID, userID uint) *models.Comment {
	t.Helper()
	c := &models.Comment{Content: "comment", PostID: postID, UserID: userID}
	require.NoError(t, db.Omit("User", "Post").Create(c).Error)
	return c
}

func assertCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	_, err := repo.GetByID(context.Background(), 42)
	appErr := assertCode(t, err, models.CodeNotFound)
	assert.Equal(t, "id", appErr.Field)
	assert.Equal(t, "42", appErr.Value)
	assert.Equal(t, "User not found with id : 42", appErr.Message)
}

func TestUserRepository_GetByID_DriverError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), 1)
	assertCode(t, err, models.CodeInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Email: "dup@example.com"})
	appErr := assertCode(t, err, models.CodeValidation)
	assert.Equal(t, "email already registered", appErr.Fields["email"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmailSQLite(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	mustUser(t, db, "a@example.com")

	err := repo.Create(context.Background(), &models.User{FirstName: "x", LastName: "y", Email: "a@example.com", Password: "p"})
	assertCode(t, err, models.CodeValidation)
}

func TestUserRepository_CacheAside(t *testing.T) {
	db := newTestDB(t)
	store, mr := newTestCache(t)
	repo := NewUserRepository(db, WithCache(store))
	ctx := context.Background()
	u := mustUser(t, db, "cached@example.com")

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.True(t, mr.Exists(cache.UserKey(u.ID)))

	got.FirstName = "Changed"
	got.Password = "newhash"
	require.NoError(t, repo.Update(ctx, got))
	assert.False(t, mr.Exists(cache.UserKey(u.ID)))

	again, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", again.FirstName)
}

func TestUserRepository_FirstByRoleAndListByRole(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.FirstByRole(ctx, models.RoleAdmin)
	appErr := assertCode(t, err, models.CodeNotFound)
	assert.Equal(t, "role", appErr.Field)

	mustUser(t, db, "u1@example.com")
	a1 := mustUser(t, db, "a1@example.com")
	a2 := mustUser(t, db, "a2@example.com")
	require.NoError(t, db.Model(&models.User{}).Where("id IN ?", []uint{a1.ID, a2.ID}).Update("role", models.RoleAdmin).Error)

	admin, err := repo.FirstByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, admin.ID)

	page, err := repo.ListByRole(ctx, models.RoleAdmin, pagination.Request{SortBy: "id", SortDir: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElement)
	assert.Equal(t, a2.ID, page.Content[0].ID)
}

func TestUserRepository_ListUnknownSort(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	_, err := repo.List(context.Background(), pagination.Request{SortBy: "password"})
	appErr := assertCode(t, err, models.CodeValidation)
	assert.Contains(t, appErr.Fields["sortBy"], "password")
}

func TestUserRepository_DeleteCascade(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	author := mustUser(t, db, "author@example.com")
	other := mustUser(t, db, "other@example.com")
	cat := mustCategory(t, db, "Tech")
	own := mustPost(t, db, "own", author.ID, cat.ID)
	foreign := mustPost(t, db, "foreign", other.ID, cat.ID)
	mustComment(t, db, own.ID, other.ID)
	mustComment(t, db, foreign.ID, author.ID)
	keep := mustComment(t, db, foreign.ID, other.ID)

	require.NoError(t, repo.DeleteCascade(ctx, author.ID))

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, keep.ID, comments[0].ID)

	var posts int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(1), posts)

	err := repo.DeleteCascade(ctx, author.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestCategoryRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	store, mr := newTestCache(t)
	repo := NewCategoryRepository(db, WithCache(store))
	ctx := context.Background()

	c := &models.Category{Title: "Tech", Description: "Technology posts"}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tech", got.Title)
	assert.True(t, mr.Exists(cache.CategoryKey(c.ID)))

	got.Title = "Technology"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Technology", got.Title)

	u := mustUser(t, db, "x@example.com")
	p := mustPost(t, db, "Hello", u.ID, c.ID)
	mustComment(t, db, p.ID, u.ID)

	require.NoError(t, repo.DeleteCascade(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assertCode(t, err, models.CodeNotFound)

	var remaining int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestCategoryRepository_ListSortsByDTOName(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	for _, title := range []string{"Bravo", "Alpha", "Charlie"} {
		mustCategory(t, db, title)
	}
	page, err := repo.List(context.Background(), pagination.Request{SortBy: "categoryTitle", SortDir: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "Alpha", page.Content[0].Title)
}

func TestPostRepository_Queries(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	u1 := mustUser(t, db, "u1@example.com")
	u2 := mustUser(t, db, "u2@example.com")
	tech := mustCategory(t, db, "Tech")
	life := mustCategory(t, db, "Life")
	hello := mustPost(t, db, "Hello World", u1.ID, tech.ID)
	mustPost(t, db, "Morning routine", u2.ID, life.ID)
	mustPost(t, db, "hello again", u2.ID, tech.ID)

	byCat, err := repo.ListByCategory(ctx, tech.ID)
	require.NoError(t, err)
	require.Len(t, byCat, 2)
	assert.Equal(t, hello.ID, byCat[0].ID)
	assert.Equal(t, "Tech", byCat[0].Category.Title)
	assert.Equal(t, u1.Email, byCat[0].User.Email)

	byUser, err := repo.ListByUser(ctx, u2.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	found, err := repo.SearchByTitle(ctx, "HELLO")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	none, err := repo.SearchByTitle(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, none)

	page, err := repo.List(ctx, pagination.Request{PageSize: 2, SortBy: "addedDate", SortDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElement)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "Tech", page.Content[0].Category.Title)
}

func TestPostRepository_Commenters(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := mustUser(t, db, "author@example.com")
	c1 := mustUser(t, db, "c1@example.com")
	c2 := mustUser(t, db, "c2@example.com")
	cat := mustCategory(t, db, "Tech")
	p := mustPost(t, db, "Hello", author.ID, cat.ID)

	mustComment(t, db, p.ID, c2.ID)
	mustComment(t, db, p.ID, c1.ID)
	mustComment(t, db, p.ID, c2.ID)

	users, err := repo.Commenters(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, c2.ID, users[0].ID)
	assert.Equal(t, c1.ID, users[1].ID)
}

func TestPostRepository_UpdateAndDeleteTwice(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	u := mustUser(t, db, "u@example.com")
	cat := mustCategory(t, db, "Tech")
	p := mustPost(t, db, "Hello", u.ID, cat.ID)
	mustComment(t, db, p.ID, u.ID)

	loaded, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Comments, 1)
	loaded.Title = "Updated"
	require.NoError(t, repo.Update(ctx, loaded))

	reloaded, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", reloaded.Title)

	require.NoError(t, repo.DeleteCascade(ctx, p.ID))
	err = repo.DeleteCascade(ctx, p.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestCommentRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	u := mustUser(t, db, "u@example.com")
	cat := mustCategory(t, db, "Tech")
	p := mustPost(t, db, "Hello", u.ID, cat.ID)

	c := &models.Comment{Content: "first", PostID: p.ID, UserID: u.ID}
	require.NoError(t, repo.Create(ctx, c))
	c.Content = "edited"
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(ctx, &models.Comment{Content: fmt.Sprintf("c%d", i), PostID: p.ID, UserID: u.ID}))
	}
	page, err := repo.List(ctx, pagination.Request{PageNo: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalElement)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Content, 2)

	require.NoError(t, repo.Delete(ctx, c.ID))
	assertCode(t, repo.Delete(ctx, c.ID), models.CodeNotFound)
}

func TestAddressRepository_ByUser(t *testing.T) {
	db := newTestDB(t)
	store, mr := newTestCache(t)
	repo := NewAddressRepository(db, WithCache(store))
	ctx := context.Background()

	_, err := repo.GetByUserID(ctx, 7)
	appErr := assertCode(t, err, models.CodeNotFound)
	assert.Equal(t, "userId", appErr.Field)

	a := &models.Address{Lane1: "1 Main St", City: "Austin", State: "TX", Zip: 73301, UserID: 7}
	require.NoError(t, repo.Create(ctx, a))

	dup := &models.Address{Lane1: "2 Main St", City: "Austin", State: "TX", Zip: 73301, UserID: 7}
	assertCode(t, repo.Create(ctx, dup), models.CodeValidation)

	got, err := repo.GetByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.True(t, mr.Exists(cache.AddressKey(7)))

	require.NoError(t, repo.DeleteByUserID(ctx, 7))
	assert.False(t, mr.Exists(cache.AddressKey(7)))
	assertCode(t, repo.DeleteByUserID(ctx, 7), models.CodeNotFound)
}

func TestAddressRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewAddressRepository(db)
	ctx := context.Background()

	a := &models.Address{Lane1: "1 Main St", City: "Austin", State: "TX", Zip: 73301, UserID: 3}
	require.NoError(t, repo.Create(ctx, a))
	a.City = "Dallas"
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dallas", got.City)

	page, err := repo.List(ctx, pagination.Request{SortBy: "city"})
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assertCode(t, repo.Delete(ctx, a.ID), models.CodeNotFound)
}

func TestWithReadReplica_NilKeepsPrimary(t *testing.T) {
	db := newTestDB(t)
	b := newBase(db, []Option{WithReadReplica(nil)})
	assert.Same(t, db, b.reader())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, isUniqueConstraintError(fmt.Errorf("wrapped: %w", gorm.ErrDuplicatedKey)))
}
