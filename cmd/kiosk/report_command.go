package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/report"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/storage"
)

const (
	flagNameSince  = "since"
	flagNameUntil  = "until"
	flagNameFormat = "format"

	flagUsageSince  = "only count feedback at or after this time (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)"
	flagUsageUntil  = "only count feedback at or before this time (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)"
	flagUsageFormat = "output format: text or yaml"

	dateLayout = "2006-01-02"
)

// ErrInvalidTimeBound indicates a --since or --until value in neither accepted layout.
var ErrInvalidTimeBound = errors.New("invalid time bound")

func (application *KioskApplication) reportCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "report",
		Short: "Print feedback analytics",
		RunE:  application.runReport,
	}
	command.Flags().String(flagNameSince, "", flagUsageSince)
	command.Flags().String(flagNameUntil, "", flagUsageUntil)
	command.Flags().String(flagNameFormat, report.FormatText, flagUsageFormat)
	return command
}

func (application *KioskApplication) runReport(command *cobra.Command, arguments []string) error {
	if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
		return argumentsErr
	}

	format, formatErr := report.ParseFormat(flagValue(command, flagNameFormat))
	if formatErr != nil {
		return formatErr
	}
	since, sinceErr := parseTimeBound(flagValue(command, flagNameSince), false)
	if sinceErr != nil {
		return sinceErr
	}
	until, untilErr := parseTimeBound(flagValue(command, flagNameUntil), true)
	if untilErr != nil {
		return untilErr
	}

	return application.withStore(func(store storage.Store) error {
		summary, reportErr := report.NewReporter(store).Report(command.Context(), report.Range{Since: since, Until: until})
		if reportErr != nil {
			return reportErr
		}
		return report.Write(command.OutOrStdout(), summary, format)
	})
}

func (application *KioskApplication) withStore(use func(storage.Store) error) error {
	configuration, configurationErr := application.loadValidConfiguration()
	if configurationErr != nil {
		return configurationErr
	}

	logger, loggerErr := newLogger(configuration.LogFile)
	if loggerErr != nil {
		return loggerErr
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, storeErr := application.openStore(configuration, logger)
	if storeErr != nil {
		return storeErr
	}
	defer closeStore(store, logger)

	return use(store)
}

func flagValue(command *cobra.Command, flagName string) string {
	value, _ := command.Flags().GetString(flagName)
	return strings.TrimSpace(value)
}

// parseTimeBound reads a local time. A bare date used as an upper bound covers the whole day.
func parseTimeBound(raw string, upper bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.ParseInLocation(model.TimestampLayout, raw, time.Local); err == nil {
		return parsed, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeBound, raw)
	}
	if upper {
		return parsed.AddDate(0, 0, 1).Add(-time.Second), nil
	}
	return parsed, nil
}
