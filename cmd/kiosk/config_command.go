package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/storage"
)

const (
	auditOKMessage         = "config-audit OK"
	auditFailedMessage     = "config-audit failed"
	auditProbePattern      = ".kiosk-audit-*"
	yamlIndentationSpaces  = 2
	longRatingAdvanceDelay = 5 * time.Second
)

var errAuditFailed = errors.New("config_audit_failed")

type configDocument struct {
	DataFile           string   `yaml:"data_file"`
	StorageDriver      string   `yaml:"storage_driver"`
	DatabaseDSN        string   `yaml:"db_dsn,omitempty"`
	LogoPaths          []string `yaml:"logo_paths"`
	LogoSize           int      `yaml:"logo_size"`
	RatingAdvanceDelay string   `yaml:"rating_advance_delay"`
	CountdownSeconds   int      `yaml:"countdown_seconds"`
	LogFile            string   `yaml:"log_file,omitempty"`
}

type auditResult struct {
	errors   []string
	warnings []string
}

func (result *auditResult) addError(message string, arguments ...any) {
	result.errors = append(result.errors, fmt.Sprintf(message, arguments...))
}

func (result *auditResult) addWarning(message string, arguments ...any) {
	result.warnings = append(result.warnings, fmt.Sprintf(message, arguments...))
}

func (result auditResult) ok() bool {
	return len(result.errors) == 0
}

func (application *KioskApplication) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "config",
		Short:        "Print the resolved configuration and audit it",
		SilenceUsage: true,
		RunE:         application.runConfig,
	}
}

func (application *KioskApplication) runConfig(command *cobra.Command, arguments []string) error {
	if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
		return argumentsErr
	}

	configuration := application.loadConfiguration()

	encoder := yaml.NewEncoder(command.OutOrStdout())
	encoder.SetIndent(yamlIndentationSpaces)
	if encodeErr := encoder.Encode(newConfigDocument(configuration)); encodeErr != nil {
		return encodeErr
	}
	if closeErr := encoder.Close(); closeErr != nil {
		return closeErr
	}

	result := auditConfiguration(configuration)
	sort.Strings(result.errors)
	sort.Strings(result.warnings)

	for _, warning := range result.warnings {
		_, _ = fmt.Fprintf(command.OutOrStdout(), "WARN: %s\n", warning)
	}
	for _, errorMessage := range result.errors {
		_, _ = fmt.Fprintf(command.ErrOrStderr(), "ERROR: %s\n", errorMessage)
	}
	if !result.ok() {
		_, _ = fmt.Fprintf(command.ErrOrStderr(), "%s\n", auditFailedMessage)
		return errAuditFailed
	}
	_, _ = fmt.Fprintf(command.OutOrStdout(), "%s\n", auditOKMessage)
	return nil
}

func newConfigDocument(configuration KioskConfig) configDocument {
	return configDocument{
		DataFile:           configuration.DataFile,
		StorageDriver:      configuration.StorageDriver,
		DatabaseDSN:        configuration.DatabaseDataSourceName,
		LogoPaths:          configuration.LogoPaths,
		LogoSize:           configuration.LogoSize,
		RatingAdvanceDelay: configuration.RatingAdvanceDelay.String(),
		CountdownSeconds:   configuration.CountdownSeconds,
		LogFile:            configuration.LogFile,
	}
}

func auditConfiguration(configuration KioskConfig) auditResult {
	var result auditResult

	driverName, driverErr := ParseStorageDriver(configuration.StorageDriver)
	switch {
	case driverErr != nil:
		result.addError("%s: %v", flagNameStorageDriver, driverErr)
	case driverName == storage.DriverNameSQLite:
		if configuration.DatabaseDataSourceName == "" {
			result.addError("%s: required with the %s driver", flagNameDatabaseDSN, storage.DriverNameSQLite)
		}
	default:
		checkDataFile(configuration.DataFile, &result)
	}

	if configuration.RatingAdvanceDelay <= 0 {
		result.addError("%s: must be positive, got %s", flagNameRatingAdvanceDelay, configuration.RatingAdvanceDelay)
	} else if configuration.RatingAdvanceDelay > longRatingAdvanceDelay {
		result.addWarning("%s: %s is long for an on-screen acknowledgement", flagNameRatingAdvanceDelay, configuration.RatingAdvanceDelay)
	}
	if configuration.CountdownSeconds <= 0 {
		result.addError("%s: must be positive, got %d", flagNameCountdownSeconds, configuration.CountdownSeconds)
	}
	if configuration.LogoSize <= 0 {
		result.addError("%s: must be positive, got %d", flagNameLogoSize, configuration.LogoSize)
	}

	checkLogoCandidates(configuration.LogoPaths, &result)
	return result
}

func checkDataFile(dataFile string, result *auditResult) {
	if dataFile == "" {
		result.addError("%s: required with the %s driver", flagNameDataFile, storage.DriverNameCSV)
		return
	}
	if info, statErr := os.Stat(dataFile); statErr == nil && info.IsDir() {
		result.addError("%s: %s is a directory", flagNameDataFile, dataFile)
		return
	}

	directory := filepath.Dir(dataFile)
	info, statErr := os.Stat(directory)
	if statErr != nil {
		result.addError("%s: directory %s is not accessible (%v)", flagNameDataFile, directory, statErr)
		return
	}
	if !info.IsDir() {
		result.addError("%s: %s is not a directory", flagNameDataFile, directory)
		return
	}
	probe, probeErr := os.CreateTemp(directory, auditProbePattern)
	if probeErr != nil {
		result.addError("%s: directory %s is not writable (%v)", flagNameDataFile, directory, probeErr)
		return
	}
	probePath := probe.Name()
	_ = probe.Close()
	_ = os.Remove(probePath)
}

func checkLogoCandidates(candidates []string, result *auditResult) {
	for _, candidate := range candidates {
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return
		}
	}
	result.addWarning("%s: none of %v exists, the rating page will show no logo", flagNameLogoPath, candidates)
}
