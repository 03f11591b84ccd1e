// Package seed provides helpers to create demo data for the blog database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"blogmesh/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// hashed DefaultPassword, computed once
	password string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404: acceptable for seeding
		nextID: 1000,
	}
}

func (f *Factory) hashedPassword() (string, error) {
	if f.password != "" {
		return f.password, nil
	}
	if f.opts.SkipBcrypt {
		f.password = DefaultPassword
		return f.password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	f.password = string(hashed)
	return f.password, nil
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	password, err := f.hashedPassword()
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	first, last := gofakeit.FirstName(), gofakeit.LastName()
	user := &models.User{
		FirstName: first,
		LastName:  last,
		Contact:   int64(gofakeit.Number(1000000000, 1999999999)),
		About:     gofakeit.Sentence(10),
		Email: fmt.Sprintf("%s.%s%d@example.com",
			strings.ToLower(first), strings.ToLower(last), gofakeit.Number(100, 999)),
		Password: password,
		Role:     models.RoleUser,
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for user in category without persisting it.
func (f *Factory) BuildPost(user *models.User, category *models.Category, overrides ...func(*models.Post)) *models.Post {
	title := strings.TrimSuffix(gofakeit.Sentence(gofakeit.Number(3, 7)), ".")
	post := &models.Post{
		Title:      title,
		Content:    gofakeit.Paragraph(2, 4, 12, "\n\n"),
		ImageName:  models.DefaultImageName,
		AddedDate:  f.pastTime(),
		UserID:     user.ID,
		CategoryID: category.ID,
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	batch := f.opts.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return f.db.Omit(clause.Associations).CreateInBatches(posts, batch).Error
}

// CreateComment constructs and persists a sample comment on post by user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	createdAt := post.AddedDate.Add(time.Duration(f.rng.Intn(72)+1) * time.Hour)
	if now := time.Now(); createdAt.After(now) {
		createdAt = now
	}
	comment := &models.Comment{
		Content:   gofakeit.Sentence(gofakeit.Number(4, 16)),
		UserID:    user.ID,
		PostID:    post.ID,
		CreatedAt: createdAt,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// pastTime spreads timestamps over the last MaxDays days.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}
