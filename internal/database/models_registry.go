package database

import "blogmesh/internal/models"

// Schema bundles the SQL migrations and GORM models owned by one service.
type Schema struct {
	Name       string
	LogTable   string
	Migrations []Migration
	Models     []interface{}
}

var (
	// BlogSchema is owned by the blog API.
	BlogSchema = Schema{
		Name:       "blog",
		LogTable:   "migration_logs",
		Migrations: mustLoadMigrations("migrations/blog"),
		Models:     PersistentModels(),
	}

	// AddressSchema is owned by the address service.
	AddressSchema = Schema{
		Name:       "address",
		LogTable:   "address_migration_logs",
		Migrations: mustLoadMigrations("migrations/address"),
		Models:     AddressModels(),
	}
)

// PersistentModels returns the authoritative set of schema-managed GORM models for the blog API.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
	}
}

// AddressModels returns the models owned by the address service.
func AddressModels() []interface{} {
	return []interface{}{
		&models.Address{},
	}
}
