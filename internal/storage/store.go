package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

const (
	// DriverNameCSV stores records as rows in a comma-separated file.
	DriverNameCSV = "csv"
	// DriverNameSQLite identifies the SQLite driver implementation.
	DriverNameSQLite = "sqlite"

	errorMessageWriteFeedback = "storage: write feedback"
	errorMessageReadFeedback  = "storage: read feedback"
)

var (
	// ErrWriteFeedback wraps every failure to durably append a record.
	ErrWriteFeedback = errors.New(errorMessageWriteFeedback)
	// ErrReadFeedback wraps failures to load records other than a missing store.
	ErrReadFeedback = errors.New(errorMessageReadFeedback)
)

// Store is an append-only collection of feedback records.
type Store interface {
	Append(ctx context.Context, record model.FeedbackRecord) error
	List(ctx context.Context) ([]model.FeedbackRecord, error)
	Close() error
}

// Config captures storage configuration. For the csv driver the data source name is the file path.
type Config struct {
	DriverName     string
	DataSourceName string
}

// Open builds the Store selected by the configured driver.
func Open(configuration Config, logger *zap.Logger) (Store, error) {
	driverName := strings.TrimSpace(configuration.DriverName)
	switch driverName {
	case "":
		return nil, ErrMissingDatabaseDriverName
	case DriverNameCSV:
		dataFile := strings.TrimSpace(configuration.DataSourceName)
		if dataFile == "" {
			return nil, ErrMissingDataSourceName
		}
		return NewCSVStore(dataFile, logger), nil
	}

	database, openErr := OpenDatabase(configuration)
	if openErr != nil {
		return nil, openErr
	}
	if migrateErr := AutoMigrate(database); migrateErr != nil {
		return nil, fmt.Errorf("%s: %w", errorMessageOpenDatabase, migrateErr)
	}
	return NewDatabaseStore(database), nil
}

// SupportedDrivers lists every driver name Open accepts.
func SupportedDrivers() []string {
	drivers := []string{DriverNameCSV}
	for driverName := range databaseOpeners {
		drivers = append(drivers, driverName)
	}
	return drivers
}

func writeError(cause error) error {
	return fmt.Errorf("%w: %w", ErrWriteFeedback, cause)
}

func readError(cause error) error {
	return fmt.Errorf("%w: %w", ErrReadFeedback, cause)
}
