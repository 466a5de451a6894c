package repository

import (
	"context"

	"gorm.io/gorm"
)

// Query narrows find, count, update-many and delete-many calls. Where keys
// are column names; slice values become IN conditions.
type Query struct {
	Where  map[string]any
	Order  string
	Limit  int
	Offset int
}

// By is a shorthand for a single-column equality query.
func By(column string, value any) Query {
	return Query{Where: map[string]any{column: value}}
}

func (q Query) scope(tx *gorm.DB) *gorm.DB {
	if len(q.Where) > 0 {
		tx = tx.Where(q.Where)
	}
	return tx
}

func (q Query) page(tx *gorm.DB) *gorm.DB {
	tx = q.scope(tx)
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	return tx
}

// Gateway is the generic CRUD surface every entity repository is built on.
// All failures are classified (NotFound, ConstraintViolation, Connection).
type Gateway[T any] struct {
	db *gorm.DB
}

// NewGateway binds a gateway for T to a database handle or transaction.
func NewGateway[T any](db *gorm.DB) Gateway[T] {
	return Gateway[T]{db: db}
}

func (g Gateway[T]) conn(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx)
}

// FindByID loads the row with the given primary key.
func (g Gateway[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var out T
	if err := g.conn(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// FindOne loads the first row matching q.
func (g Gateway[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	var out T
	if err := q.page(g.conn(ctx)).First(&out).Error; err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// FindMany loads all rows matching q.
func (g Gateway[T]) FindMany(ctx context.Context, q Query) ([]T, error) {
	out := make([]T, 0)
	if err := q.page(g.conn(ctx)).Find(&out).Error; err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (g Gateway[T]) Create(ctx context.Context, entity *T) error {
	return classify(g.conn(ctx).Create(entity).Error)
}

// Update saves every field of entity.
func (g Gateway[T]) Update(ctx context.Context, entity *T) error {
	return classify(g.conn(ctx).Save(entity).Error)
}

// UpdateMany applies values to all rows matching q. An empty query is
// rejected by gorm, so a missing filter never rewrites the whole table.
func (g Gateway[T]) UpdateMany(ctx context.Context, q Query, values map[string]any) (int64, error) {
	res := q.scope(g.conn(ctx).Model(new(T))).Updates(values)
	return res.RowsAffected, classify(res.Error)
}

// Delete removes one row by primary key; NotFound when nothing was deleted.
func (g Gateway[T]) Delete(ctx context.Context, id string) error {
	res := g.conn(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return classify(gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteMany removes all rows matching q and reports how many went away.
func (g Gateway[T]) DeleteMany(ctx context.Context, q Query) (int64, error) {
	res := q.scope(g.conn(ctx)).Delete(new(T))
	return res.RowsAffected, classify(res.Error)
}

func (g Gateway[T]) Count(ctx context.Context, q Query) (int64, error) {
	var n int64
	err := q.scope(g.conn(ctx).Model(new(T))).Count(&n).Error
	return n, classify(err)
}

// Exists reports whether a row with the given primary key exists.
func (g Gateway[T]) Exists(ctx context.Context, id string) (bool, error) {
	n, err := g.Count(ctx, By("id", id))
	return n > 0, err
}

// InTransaction runs fn in one database transaction. Everything fn writes
// through tx commits together or is rolled back on the first error.
func InTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return classify(db.WithContext(ctx).Transaction(fn))
}
