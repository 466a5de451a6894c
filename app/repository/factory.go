package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory builds the repositories once per database handle
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// DB exposes the handle the repositories were built with.
func (f *Factory) DB() *gorm.DB {
	return f.db
}
