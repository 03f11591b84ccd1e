package seed

import (
	"fmt"
	"log"

	"blogmesh/internal/models"

	"gorm.io/gorm"
)

// Options configure the seeder.
type Options struct {
	SkipBcrypt bool
	DryRun     bool
	BatchSize  int
	// MaxDays bounds how far back post dates are spread.
	MaxDays int
	// RandomSeed makes a run reproducible when non-zero.
	RandomSeed int64
}

// Counts describes how much data a run creates.
type Counts struct {
	Users           int
	Posts           int
	CommentsPerPost int
}

// Result summarises a seeding run.
type Result struct {
	Users      []models.User
	Categories []models.Category
	Posts      []*models.Post
	Comments   int
}

// Seeder populates the blog database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder returns a Seeder writing through db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll deletes every row owned by the blog API, children first.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	for _, model := range []any{&models.Comment{}, &models.Post{}, &models.Category{}, &models.User{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// SeedUsers creates count users. The first one is an admin.
func (s *Seeder) SeedUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		var overrides []func(*models.User)
		if i == 0 {
			overrides = append(overrides, func(u *models.User) {
				u.FirstName, u.LastName = "Blog", "Admin"
				u.Email = "admin@example.com"
				u.Role = models.RoleAdmin
			})
		}
		user, err := s.factory.CreateUser(overrides...)
		if err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, *user)
	}
	return users, nil
}

// SeedPosts spreads count posts over users and categories.
func (s *Seeder) SeedPosts(users []models.User, categories []models.Category, count int) ([]*models.Post, error) {
	if count == 0 {
		return nil, nil
	}
	if len(users) == 0 || len(categories) == 0 {
		return nil, fmt.Errorf("seeding posts needs at least one user and one category")
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := &users[s.factory.rng.Intn(len(users))]
		category := &categories[s.factory.rng.Intn(len(categories))]
		posts = append(posts, s.factory.BuildPost(user, category))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}

// SeedComments adds up to perPost comments to every post from random users.
func (s *Seeder) SeedComments(users []models.User, posts []*models.Post, perPost int) (int, error) {
	if perPost <= 0 || len(users) == 0 {
		return 0, nil
	}
	created := 0
	for _, post := range posts {
		n := s.factory.rng.Intn(perPost + 1)
		for j := 0; j < n; j++ {
			user := &users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(user, post); err != nil {
				return created, fmt.Errorf("create comment on post %d: %w", post.ID, err)
			}
			created++
		}
	}
	return created, nil
}

// Run seeds categories, users, posts and comments.
func (s *Seeder) Run(counts Counts) (*Result, error) {
	log.Printf("🌱 Seeding %d users, %d posts, up to %d comments per post", counts.Users, counts.Posts, counts.CommentsPerPost)

	res := &Result{}
	var err error

	if s.opts.DryRun {
		for i, item := range BuiltInCategories {
			res.Categories = append(res.Categories, models.Category{ID: uint(i + 1), Title: item.Title, Description: item.Description})
		}
	} else if res.Categories, err = Categories(s.db); err != nil {
		return nil, err
	}
	log.Printf("✓ %d categories available", len(res.Categories))

	if res.Users, err = s.SeedUsers(counts.Users); err != nil {
		return nil, err
	}
	log.Printf("✓ %d users created", len(res.Users))

	if res.Posts, err = s.SeedPosts(res.Users, res.Categories, counts.Posts); err != nil {
		return nil, err
	}
	log.Printf("✓ %d posts created", len(res.Posts))

	if res.Comments, err = s.SeedComments(res.Users, res.Posts, counts.CommentsPerPost); err != nil {
		return nil, err
	}
	log.Printf("✓ %d comments created", res.Comments)

	return res, nil
}
