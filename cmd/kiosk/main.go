package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/storage"
)

const (
	commandUseName               = "kiosk"
	commandShortDescription      = "Run the feedback kiosk"
	commandLongDescription       = "Collect satisfaction ratings and referral sources at a kiosk terminal, and report on them"
	commandInitializationFailure = "failed to configure command"
	loggerCreationErrorMessage   = "logger"
	unexpectedArgumentsMessage   = "unexpected command arguments"
)

// StoreOpener opens the feedback store described by a storage configuration.
type StoreOpener func(storage.Config, *zap.Logger) (storage.Store, error)

// KioskApplication constructs and executes the kiosk commands.
type KioskApplication struct {
	configurationLoader *viper.Viper
	storeOpener         StoreOpener
	clearScreen         bool
}

// NewKioskApplication creates a KioskApplication with default dependencies.
func NewKioskApplication() *KioskApplication {
	return &KioskApplication{
		configurationLoader: viper.New(),
		storeOpener:         storage.Open,
		clearScreen:         true,
	}
}

// WithStoreOpener overrides the store opener dependency.
func (application *KioskApplication) WithStoreOpener(storeOpener StoreOpener) *KioskApplication {
	application.storeOpener = storeOpener
	return application
}

// WithClearScreen controls whether each page clears the terminal first.
func (application *KioskApplication) WithClearScreen(clearScreen bool) *KioskApplication {
	application.clearScreen = clearScreen
	return application
}

// Command builds the Cobra command tree. Invoking the root command runs the kiosk.
func (application *KioskApplication) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:               commandUseName,
		Short:             commandShortDescription,
		Long:              commandLongDescription,
		PersistentPreRunE: application.loadConfigurationFile,
		RunE:              application.runKiosk,
	}

	if configurationErr := application.configureCommand(rootCommand); configurationErr != nil {
		return nil, configurationErr
	}

	rootCommand.AddCommand(
		application.runSubcommand(),
		application.reportCommand(),
		application.exportCommand(),
		application.configCommand(),
	)

	return rootCommand, nil
}

func (application *KioskApplication) runSubcommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the kiosk survey loop",
		RunE:  application.runKiosk,
	}
}

func newLogger(logFile string) (*zap.Logger, error) {
	configuration := zap.NewProductionConfig()
	if logFile != "" {
		configuration.OutputPaths = []string{logFile}
		configuration.ErrorOutputPaths = []string{logFile}
	}
	logger, err := configuration.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", loggerCreationErrorMessage, err)
	}
	return logger, nil
}

func main() {
	application := NewKioskApplication()
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandInitializationFailure, commandErr)
		os.Exit(1)
	}

	if executeErr := rootCommand.Execute(); executeErr != nil {
		os.Exit(1)
	}
}
