package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/session"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/storage"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/pkg/logo"
)

const (
	flagNameConfigFile         = "config"
	flagNameDataFile           = "data-file"
	flagNameStorageDriver      = "storage-driver"
	flagNameDatabaseDSN        = "db-dsn"
	flagNameLogoPath           = "logo-path"
	flagNameLogoSize           = "logo-size"
	flagNameRatingAdvanceDelay = "rating-advance-delay"
	flagNameCountdownSeconds   = "countdown-seconds"
	flagNameLogFile            = "log-file"

	flagUsageConfigFile         = "optional YAML configuration file"
	flagUsageDataFile           = "CSV file feedback is appended to"
	flagUsageStorageDriver      = "storage driver: csv or sqlite"
	flagUsageDatabaseDSN        = "SQLite data source name, required with the sqlite driver"
	flagUsageLogoPath           = "logo image candidates, first existing one is used"
	flagUsageLogoSize           = "logo edge length in pixels"
	flagUsageRatingAdvanceDelay = "delay between choosing a rating and the source page"
	flagUsageCountdownSeconds   = "seconds the thank-you page stays before the survey restarts"
	flagUsageLogFile            = "write logs to this file; run defaults to kiosk.log, other commands to stderr"

	environmentKeyDataFile           = "DATA_FILE"
	environmentKeyStorageDriver      = "STORAGE_DRIVER"
	environmentKeyDatabaseDSN        = "DB_DSN"
	environmentKeyLogoPaths          = "LOGO_PATHS"
	environmentKeyLogoSize           = "LOGO_SIZE"
	environmentKeyRatingAdvanceDelay = "RATING_ADVANCE_DELAY"
	environmentKeyCountdownSeconds   = "COUNTDOWN_SECONDS"
	environmentKeyLogFile            = "LOG_FILE"

	defaultDataFile = "feedback_data.csv"

	// run logs here unless --log-file is set.
	defaultRunLogFile = "kiosk.log"

	missingConfigurationMessage   = "missing required configuration"
	invalidConfigurationMessage   = "invalid configuration"
	flagNotDefinedMessage         = "flag %s not defined"
	environmentConfigurationError = "failed to apply environment configuration"
	configurationFileError        = "failed to read configuration file"
)

var ErrInvalidStorageDriver = errors.New("invalid storage driver")

// KioskConfig captures the resolved configuration of every kiosk command.
type KioskConfig struct {
	DataFile               string
	StorageDriver          string
	DatabaseDataSourceName string
	LogoPaths              []string
	LogoSize               int
	RatingAdvanceDelay     time.Duration
	CountdownSeconds       int
	LogFile                string
}

type flagBinding struct {
	environmentKey string
	flagName       string
}

var flagBindings = []flagBinding{
	{environmentKey: environmentKeyDataFile, flagName: flagNameDataFile},
	{environmentKey: environmentKeyStorageDriver, flagName: flagNameStorageDriver},
	{environmentKey: environmentKeyDatabaseDSN, flagName: flagNameDatabaseDSN},
	{environmentKey: environmentKeyLogoPaths, flagName: flagNameLogoPath},
	{environmentKey: environmentKeyLogoSize, flagName: flagNameLogoSize},
	{environmentKey: environmentKeyRatingAdvanceDelay, flagName: flagNameRatingAdvanceDelay},
	{environmentKey: environmentKeyCountdownSeconds, flagName: flagNameCountdownSeconds},
	{environmentKey: environmentKeyLogFile, flagName: flagNameLogFile},
}

// ParseStorageDriver normalizes a driver name, defaulting to csv.
func ParseStorageDriver(rawInput string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(rawInput))
	if normalized == "" {
		return storage.DriverNameCSV, nil
	}
	for _, driverName := range storage.SupportedDrivers() {
		if normalized == driverName {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStorageDriver, rawInput)
}

func (application *KioskApplication) configureCommand(command *cobra.Command) error {
	loader := application.configurationLoader
	loader.SetDefault(environmentKeyDataFile, defaultDataFile)
	loader.SetDefault(environmentKeyStorageDriver, storage.DriverNameCSV)
	loader.SetDefault(environmentKeyDatabaseDSN, "")
	loader.SetDefault(environmentKeyLogoPaths, logo.DefaultCandidates)
	loader.SetDefault(environmentKeyLogoSize, logo.DefaultSize)
	loader.SetDefault(environmentKeyRatingAdvanceDelay, session.DefaultRatingAdvanceDelay)
	loader.SetDefault(environmentKeyCountdownSeconds, session.DefaultCountdownSeconds)
	loader.SetDefault(environmentKeyLogFile, "")
	loader.AutomaticEnv()

	commandFlags := command.PersistentFlags()
	commandFlags.String(flagNameConfigFile, "", flagUsageConfigFile)
	commandFlags.String(flagNameDataFile, defaultDataFile, flagUsageDataFile)
	commandFlags.String(flagNameStorageDriver, storage.DriverNameCSV, flagUsageStorageDriver)
	commandFlags.String(flagNameDatabaseDSN, "", flagUsageDatabaseDSN)
	commandFlags.StringSlice(flagNameLogoPath, logo.DefaultCandidates, flagUsageLogoPath)
	commandFlags.Int(flagNameLogoSize, logo.DefaultSize, flagUsageLogoSize)
	commandFlags.Duration(flagNameRatingAdvanceDelay, session.DefaultRatingAdvanceDelay, flagUsageRatingAdvanceDelay)
	commandFlags.Int(flagNameCountdownSeconds, session.DefaultCountdownSeconds, flagUsageCountdownSeconds)
	commandFlags.String(flagNameLogFile, "", flagUsageLogFile)

	for _, binding := range flagBindings {
		if bindErr := application.bindFlag(commandFlags, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
	}

	for _, binding := range flagBindings {
		if environmentErr := application.applyEnvironmentConfiguration(commandFlags, binding.environmentKey, binding.flagName); environmentErr != nil {
			return environmentErr
		}
	}

	return nil
}

func (application *KioskApplication) bindFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if bindErr := application.configurationLoader.BindPFlag(environmentKey, flag); bindErr != nil {
		return bindErr
	}

	return nil
}

func (application *KioskApplication) applyEnvironmentConfiguration(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	environmentValue, environmentFound := os.LookupEnv(environmentKey)
	if !environmentFound {
		return nil
	}

	if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
		return fmt.Errorf("%s: %w", environmentConfigurationError, setErr)
	}

	return nil
}

// loadConfigurationFile reads the optional YAML file before any command runs.
// Keys use the environment names in lower case, for example data_file.
func (application *KioskApplication) loadConfigurationFile(command *cobra.Command, arguments []string) error {
	configFile, flagErr := command.Flags().GetString(flagNameConfigFile)
	if flagErr != nil || strings.TrimSpace(configFile) == "" {
		return nil
	}
	application.configurationLoader.SetConfigFile(strings.TrimSpace(configFile))
	if readErr := application.configurationLoader.ReadInConfig(); readErr != nil {
		return fmt.Errorf("%s: %w", configurationFileError, readErr)
	}
	return nil
}

func (application *KioskApplication) loadConfiguration() KioskConfig {
	loader := application.configurationLoader
	return KioskConfig{
		DataFile:               strings.TrimSpace(loader.GetString(environmentKeyDataFile)),
		StorageDriver:          strings.TrimSpace(loader.GetString(environmentKeyStorageDriver)),
		DatabaseDataSourceName: strings.TrimSpace(loader.GetString(environmentKeyDatabaseDSN)),
		LogoPaths:              loader.GetStringSlice(environmentKeyLogoPaths),
		LogoSize:               loader.GetInt(environmentKeyLogoSize),
		RatingAdvanceDelay:     loader.GetDuration(environmentKeyRatingAdvanceDelay),
		CountdownSeconds:       loader.GetInt(environmentKeyCountdownSeconds),
		LogFile:                strings.TrimSpace(loader.GetString(environmentKeyLogFile)),
	}
}

// loadValidConfiguration resolves the configuration and rejects anything the kiosk cannot run with.
func (application *KioskApplication) loadValidConfiguration() (KioskConfig, error) {
	configuration := application.loadConfiguration()
	if validationErr := ensureRequiredConfiguration(configuration); validationErr != nil {
		return KioskConfig{}, validationErr
	}
	driverName, _ := ParseStorageDriver(configuration.StorageDriver)
	configuration.StorageDriver = driverName
	return configuration, nil
}

func ensureRequiredConfiguration(configuration KioskConfig) error {
	driverName, driverErr := ParseStorageDriver(configuration.StorageDriver)
	if driverErr != nil {
		return driverErr
	}

	var missingParameters []string
	if driverName == storage.DriverNameCSV && configuration.DataFile == "" {
		missingParameters = append(missingParameters, flagNameDataFile)
	}
	if driverName == storage.DriverNameSQLite && configuration.DatabaseDataSourceName == "" {
		missingParameters = append(missingParameters, flagNameDatabaseDSN)
	}
	if len(missingParameters) > 0 {
		return fmt.Errorf("%s: %s", missingConfigurationMessage, strings.Join(missingParameters, ", "))
	}

	var invalidParameters []string
	if configuration.RatingAdvanceDelay <= 0 {
		invalidParameters = append(invalidParameters, flagNameRatingAdvanceDelay)
	}
	if configuration.CountdownSeconds <= 0 {
		invalidParameters = append(invalidParameters, flagNameCountdownSeconds)
	}
	if configuration.LogoSize <= 0 {
		invalidParameters = append(invalidParameters, flagNameLogoSize)
	}
	if len(invalidParameters) > 0 {
		return fmt.Errorf("%s: %s must be positive", invalidConfigurationMessage, strings.Join(invalidParameters, ", "))
	}

	return nil
}

func (configuration KioskConfig) storageConfig() storage.Config {
	driverName, _ := ParseStorageDriver(configuration.StorageDriver)
	if driverName == storage.DriverNameSQLite {
		return storage.Config{DriverName: driverName, DataSourceName: configuration.DatabaseDataSourceName}
	}
	return storage.Config{DriverName: storage.DriverNameCSV, DataSourceName: configuration.DataFile}
}

func (configuration KioskConfig) runLogFile() string {
	if configuration.LogFile == "" {
		return defaultRunLogFile
	}
	return configuration.LogFile
}

func (configuration KioskConfig) timing() session.Timing {
	return session.Timing{
		RatingAdvanceDelay: configuration.RatingAdvanceDelay,
		CountdownSeconds:   configuration.CountdownSeconds,
		CountdownStep:      session.DefaultCountdownStep,
	}
}

func rejectArguments(arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf("%s: %s", unexpectedArgumentsMessage, strings.Join(arguments, " "))
	}
	return nil
}
