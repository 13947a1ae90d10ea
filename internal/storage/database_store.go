package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

// DatabaseStore keeps feedback records in a SQL table through GORM.
type DatabaseStore struct {
	database *gorm.DB
}

// NewDatabaseStore wraps a migrated database connection.
func NewDatabaseStore(database *gorm.DB) *DatabaseStore {
	return &DatabaseStore{database: database}
}

// Append inserts record, assigning an identifier when it has none.
func (store *DatabaseStore) Append(ctx context.Context, record model.FeedbackRecord) error {
	if record.ID == "" {
		record.ID = NewID()
	}
	if err := store.database.WithContext(ctx).Create(&record).Error; err != nil {
		return writeError(err)
	}
	return nil
}

// List returns every record, oldest first.
func (store *DatabaseStore) List(ctx context.Context) ([]model.FeedbackRecord, error) {
	records := []model.FeedbackRecord{}
	err := store.database.WithContext(ctx).
		Order("timestamp asc, id asc").
		Find(&records).Error
	if err != nil {
		return nil, readError(err)
	}
	return records, nil
}

// Close releases the underlying connection pool.
func (store *DatabaseStore) Close() error {
	sqlDatabase, err := store.database.DB()
	if err != nil {
		return err
	}
	return sqlDatabase.Close()
}
