package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/storage"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/testutil"
)

const (
	testUnsupportedDriverName        = "unsupported-driver"
	testUnsupportedDriverDescription = "unsupported driver"
	testMissingDriverDescription     = "missing driver"
	testMissingDataSourceDescription = "missing data source"
)

func TestOpenDatabaseWithSQLiteConfiguration(testingT *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)

	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	database = testutil.ConfigureDatabaseLogger(testingT, database)
	require.NotNil(testingT, database)

	require.NoError(testingT, storage.AutoMigrate(database))

	record := testutil.NewRecord(testingT, model.RatingGood, model.SourceGoogleMaps, testutil.FixedTime)
	record.ID = storage.NewID()
	require.NoError(testingT, database.Create(&record).Error)

	var fetched model.FeedbackRecord
	require.NoError(testingT, database.First(&fetched, "id = ?", record.ID).Error)
	require.Equal(testingT, model.RatingGood, fetched.Rating)
	require.Equal(testingT, model.SourceGoogleMaps, fetched.Source)
}

func TestOpenDatabaseValidation(testingT *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)

	testCases := []struct {
		name              string
		configuration     storage.Config
		expectedRootError error
	}{
		{
			name: testMissingDriverDescription,
			configuration: storage.Config{
				DriverName:     "",
				DataSourceName: sqliteDatabase.DataSourceName(),
			},
			expectedRootError: storage.ErrMissingDatabaseDriverName,
		},
		{
			name: testUnsupportedDriverDescription,
			configuration: storage.Config{
				DriverName:     testUnsupportedDriverName,
				DataSourceName: sqliteDatabase.DataSourceName(),
			},
			expectedRootError: storage.ErrUnsupportedDatabaseDriver,
		},
		{
			name: testMissingDataSourceDescription,
			configuration: storage.Config{
				DriverName:     storage.DriverNameSQLite,
				DataSourceName: "",
			},
			expectedRootError: storage.ErrMissingDataSourceName,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingT.Run(testCase.name, func(testingT *testing.T) {
			_, openErr := storage.OpenDatabase(testCase.configuration)
			require.Error(testingT, openErr)
			require.True(testingT, errors.Is(openErr, testCase.expectedRootError))
		})
	}
}

func TestDatabaseStoreAppendsAndListsOldestFirst(testingT *testing.T) {
	store := testutil.NewSQLiteTestDatabase(testingT).OpenStore(testingT)
	ctx := context.Background()

	later := testutil.NewRecord(testingT, model.RatingPoor, model.SourceTikTok, testutil.FixedTime.Add(time.Minute))
	earlier := testutil.NewRecord(testingT, model.RatingExcellent, model.SourceInstagram, testutil.FixedTime)
	require.NoError(testingT, store.Append(ctx, later))
	require.NoError(testingT, store.Append(ctx, earlier))

	records, err := store.List(ctx)
	require.NoError(testingT, err)
	require.Len(testingT, records, 2)
	require.Equal(testingT, model.RatingExcellent, records[0].Rating)
	require.Equal(testingT, model.SourceInstagram, records[0].Source)
	require.Equal(testingT, model.RatingPoor, records[1].Rating)
	require.NotEmpty(testingT, records[0].ID)
	require.NotEqual(testingT, records[0].ID, records[1].ID)
	require.True(testingT, records[0].Timestamp.Equal(testutil.FixedTime))
}

func TestDatabaseStoreReportsWriteFailure(testingT *testing.T) {
	store := testutil.NewSQLiteTestDatabase(testingT).OpenStore(testingT)
	ctx := context.Background()

	record := testutil.NewRecord(testingT, model.RatingFair, model.SourceSnapchat, testutil.FixedTime)
	record.ID = storage.NewID()
	require.NoError(testingT, store.Append(ctx, record))

	duplicateErr := store.Append(ctx, record)
	require.ErrorIs(testingT, duplicateErr, storage.ErrWriteFeedback)
}

func TestOpenSelectsStoreByDriver(testingT *testing.T) {
	csvStore, csvErr := storage.Open(storage.Config{DriverName: storage.DriverNameCSV, DataSourceName: testingT.TempDir() + "/feedback_data.csv"}, nil)
	require.NoError(testingT, csvErr)
	require.IsType(testingT, &storage.CSVStore{}, csvStore)

	sqliteStore, sqliteErr := storage.Open(testutil.NewSQLiteTestDatabase(testingT).Configuration(), nil)
	require.NoError(testingT, sqliteErr)
	require.IsType(testingT, &storage.DatabaseStore{}, sqliteStore)
	testingT.Cleanup(func() { _ = sqliteStore.Close() })

	_, missingErr := storage.Open(storage.Config{DriverName: storage.DriverNameCSV}, nil)
	require.ErrorIs(testingT, missingErr, storage.ErrMissingDataSourceName)

	_, unsupportedErr := storage.Open(storage.Config{DriverName: testUnsupportedDriverName, DataSourceName: "x"}, nil)
	require.ErrorIs(testingT, unsupportedErr, storage.ErrUnsupportedDatabaseDriver)

	require.ElementsMatch(testingT, []string{storage.DriverNameCSV, storage.DriverNameSQLite}, storage.SupportedDrivers())
}
