package repository

import (
	"context"

	"gorm.io/gorm"
)

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates the admin aggregate repository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) PlatformStats(ctx context.Context) (PlatformStatsResult, error) {
	return RunAggregate[PlatformStatsResult](ctx, r.db, PlatformStats{})
}

// Ping checks that the connection pool can reach the database
func (r *statsRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return classify(err)
	}
	return classify(sqlDB.PingContext(ctx))
}
