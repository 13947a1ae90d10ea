package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testOpenDatabaseFailureMessage = "open failure"

func TestOpenDatabaseWrapsOpenerError(testingT *testing.T) {
	originalOpeners := databaseOpeners
	testingT.Cleanup(func() {
		databaseOpeners = originalOpeners
	})

	databaseOpeners = map[string]databaseOpener{
		DriverNameSQLite: func(Config) (*gorm.DB, error) {
			return nil, errors.New(testOpenDatabaseFailureMessage)
		},
	}

	_, openErr := OpenDatabase(Config{
		DriverName:     DriverNameSQLite,
		DataSourceName: "file:invalid",
	})
	require.Error(testingT, openErr)
	require.Contains(testingT, openErr.Error(), errorMessageOpenDatabase)

	_, storeErr := Open(Config{DriverName: DriverNameSQLite, DataSourceName: "file:invalid"}, nil)
	require.ErrorContains(testingT, storeErr, testOpenDatabaseFailureMessage)
}

func TestOpenSQLiteDatabaseReportsOpenError(testingT *testing.T) {
	tempDirectory := testingT.TempDir()
	missingDirectory := filepath.Join(tempDirectory, "missing")
	dataSourceName := fmt.Sprintf("file:%s?mode=rwc&_foreign_keys=on", filepath.Join(missingDirectory, "test.db"))

	database, openErr := openSQLiteDatabase(Config{DataSourceName: dataSourceName})
	if openErr == nil {
		// The driver connects lazily; the first statement surfaces the failure.
		openErr = AutoMigrate(database)
	}
	require.Error(testingT, openErr)
}

func TestDecodeRowRejectsMalformedFields(testingT *testing.T) {
	testCases := []struct {
		name   string
		fields []string
	}{
		{name: "too few fields", fields: []string{"2025-01-01 12:00:00", "5"}},
		{name: "too many fields", fields: []string{"2025-01-01 12:00:00", "5", "Instagram", "extra"}},
		{name: "bad timestamp", fields: []string{"01/01/2025", "5", "Instagram"}},
		{name: "rating out of range", fields: []string{"2025-01-01 12:00:00", "7", "Instagram"}},
		{name: "unknown source", fields: []string{"2025-01-01 12:00:00", "4", "Billboard"}},
	}

	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			_, decodeErr := decodeRow(testCase.fields)
			require.ErrorIs(testingT, decodeErr, errMalformedRow)
		})
	}
}

func TestIsHeaderRowToleratesByteOrderMark(testingT *testing.T) {
	require.True(testingT, isHeaderRow([]string{byteOrderMark + "timestamp", "rating", "source"}))
	require.False(testingT, isHeaderRow([]string{"2025-01-01 12:00:00", "5", "Instagram"}))
	require.False(testingT, isHeaderRow([]string{"timestamp", "rating"}))
}
