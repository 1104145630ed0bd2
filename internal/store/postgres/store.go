// Package postgres implements the record store contract on PostgreSQL
// through GORM.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/store"
)

// Store is the GORM-backed record store.
type Store struct {
	db  *gorm.DB
	log logger.Logger
}

// Open connects to Postgres and migrates the pipeline tables.
func Open(dsn string, log logger.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if err := db.AutoMigrate(
		&domain.NotebookRecord{},
		&domain.Interaction{},
		&domain.Recommendation{},
		&domain.UserPreferences{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// NewStore wraps an existing gorm.DB (used by tests with sqlite or a
// prepared connection).
func NewStore(db *gorm.DB, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// QueryRecords reads records matching q. Structured predicates (category,
// platform, status, quality range) are pushed down to SQL; free-text and
// rating-set predicates are applied in memory through the domain filter so
// matching semantics stay identical to the pure engine.
func (s *Store) QueryRecords(ctx context.Context, q store.RecordQuery) ([]*domain.NotebookRecord, error) {
	tx := s.db.WithContext(ctx).Model(&domain.NotebookRecord{})

	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if f := q.Filter; f != nil {
		if f.Category != "" {
			tx = tx.Where("category = ?", f.Category)
		}
		if f.Platform != "" {
			tx = tx.Where("platform = ?", f.Platform)
		}
		if f.MinQuality != nil {
			tx = tx.Where("quality_score >= ?", *f.MinQuality)
		}
		if f.MaxQuality != nil {
			tx = tx.Where("quality_score <= ?", *f.MaxQuality)
		}
	}

	switch q.SortBy {
	case domain.SortViewCount:
		tx = tx.Order("view_count DESC")
	case domain.SortRecency:
		tx = tx.Order("published_at DESC")
	case domain.SortQuality:
		tx = tx.Order("quality_score DESC")
	default:
		tx = tx.Order("created_at ASC")
	}

	var records []*domain.NotebookRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, wrapStoreErr("query records", err)
	}

	if q.Filter != nil {
		records = q.Filter.Apply(records, domain.SortNone)
	}
	if q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}

	return records, nil
}

// GetRecord retrieves a single record by id.
func (s *Store) GetRecord(ctx context.Context, id string) (*domain.NotebookRecord, error) {
	var record domain.NotebookRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: record %s", domain.ErrNotFound, id)
		}
		return nil, wrapStoreErr("get record", err)
	}
	return &record, nil
}

// InsertRecord stores a new record and returns its id.
func (s *Store) InsertRecord(ctx context.Context, record *domain.NotebookRecord) (string, error) {
	if record.Status == "" {
		record.Status = domain.StatusDiscovered
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return "", wrapStoreErr("insert record", err)
	}
	return record.ID, nil
}

// UpdateRecord applies a partial update to a record.
func (s *Store) UpdateRecord(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).
		Model(&domain.NotebookRecord{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return wrapStoreErr("update record", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: record %s", domain.ErrNotFound, id)
	}
	return nil
}

// UpsertRecords bulk-inserts seed records, updating descriptive and score
// fields when the source URL is already known. Engagement counters are not
// overwritten by seeds.
func (s *Store) UpsertRecords(ctx context.Context, records []*domain.NotebookRecord) error {
	if len(records) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			var existing domain.NotebookRecord
			err := tx.First(&existing, "source_url = ?", record.SourceURL).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if createErr := tx.Create(record).Error; createErr != nil {
					return createErr
				}
			case err != nil:
				return err
			default:
				updates := map[string]interface{}{
					"title":         record.Title,
					"description":   record.Description,
					"author":        record.Author,
					"institution":   record.Institution,
					"category":      record.Category,
					"tags":          record.Tags,
					"size_kb":       record.SizeKB,
					"compute_hours": record.ComputeHours,
					"carbon_grams":  record.CarbonGrams,
					"efficiency":    record.Efficiency,
					"updated_at":    time.Now(),
				}
				if updateErr := tx.Model(&existing).Updates(updates).Error; updateErr != nil {
					return updateErr
				}
			}
		}
		return nil
	})
	if err != nil {
		return wrapStoreErr("upsert records", err)
	}
	return nil
}

// IncrementEngagement applies counter deltas in one conditional UPDATE.
func (s *Store) IncrementEngagement(ctx context.Context, recordID string, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}

	updates := make(map[string]interface{}, len(deltas))
	for field, delta := range deltas {
		switch field {
		case "view_count", "like_count", "share_count", "bookmark_count":
			updates[field] = gorm.Expr(fmt.Sprintf("GREATEST(%s + ?, 0)", field), delta)
		}
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).
		Model(&domain.NotebookRecord{}).
		Where("id = ?", recordID).
		Updates(updates)
	if res.Error != nil {
		return wrapStoreErr("increment engagement", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: record %s", domain.ErrNotFound, recordID)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrapStoreErr("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return wrapStoreErr("ping", err)
	}
	return nil
}

// CountRecords returns the total number of records.
func (s *Store) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.NotebookRecord{}).Count(&count).Error; err != nil {
		return 0, wrapStoreErr("count records", err)
	}
	return count, nil
}

func wrapStoreErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}
