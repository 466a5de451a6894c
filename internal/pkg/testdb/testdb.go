// Package testdb opens throwaway SQLite databases for package tests.
package testdb

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/database"
)

// New returns a migrated in-memory database private to the test. The pool
// holds a single connection, so concurrent goroutines interleave between
// statements the same way requests do against a real server.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedUser inserts a user with a fixed id.
func SeedUser(t testing.TB, db *gorm.DB, id, role string) *models.User {
	t.Helper()
	u := &models.User{
		Base:  models.Base{ID: id},
		Name:  "User " + id,
		Email: id + "@example.com",
		Role:  role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedSubscription inserts a subscription row for userID.
func SeedSubscription(t testing.TB, db *gorm.DB, userID, category string, active, trial bool) *models.ContractorSubscription {
	t.Helper()
	status := models.SubscriptionStatusCanceled
	if active {
		status = models.SubscriptionStatusActive
		if trial {
			status = models.SubscriptionStatusTrialing
		}
	}
	sub := &models.ContractorSubscription{
		UserID:                 userID,
		Provider:               models.SubscriptionProviderManual,
		ProviderSubscriptionID: uuid.NewString(),
		Category:               category,
		Status:                 status,
		IsTrial:                trial,
		IsActive:               active,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}
