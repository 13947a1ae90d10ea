package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/report"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/session"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/storage"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/task"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/terminal"
	"github.com/MarkoPoloResearchLab/feedback_kiosk/pkg/logo"
)

const (
	loggerContextOpenStore  = "open_store"
	logEventKioskStarted    = "kiosk_started"
	logEventKioskStopped    = "kiosk_stopped"
	logEventInputFailed     = "input_failed"
	logEventStoreCloseError = "store_close_failed"
	logFieldDriver          = "driver"
	logFieldDataSource      = "data_source"

	openStoreErrorMessage = "open feedback store"
)

func (application *KioskApplication) runKiosk(command *cobra.Command, arguments []string) error {
	if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
		return argumentsErr
	}

	configuration, configurationErr := application.loadValidConfiguration()
	if configurationErr != nil {
		return configurationErr
	}

	logger, loggerErr := newLogger(configuration.runLogFile())
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

	ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	asset := logo.NewLoader(configuration.LogoPaths, configuration.LogoSize, logger).Load()
	presenter := terminal.NewPresenter(command.OutOrStdout(), asset, terminal.Options{ClearScreen: application.clearScreen}, logger)

	loop := task.NewLoop(0)
	loop.Start(ctx)
	defer loop.Stop()

	controller := session.NewController(session.Dependencies{
		Flow:      session.NewFlow(configuration.timing()),
		Store:     store,
		Reports:   report.NewReporter(store),
		Presenter: presenter,
		Scheduler: loop,
		Logger:    logger,
	})

	logger.Info(logEventKioskStarted,
		zap.String(logFieldDriver, configuration.storageConfig().DriverName),
		zap.String(logFieldDataSource, configuration.storageConfig().DataSourceName),
	)
	loop.Post(func() { controller.Start(ctx) })

	inputDone := make(chan error, 1)
	go func() {
		inputDone <- terminal.ReadKeys(ctx, command.InOrStdin(), func(key string) {
			loop.Post(func() { controller.Press(ctx, key) })
		})
	}()

	select {
	case <-ctx.Done():
	case inputErr := <-inputDone:
		if inputErr != nil && !errors.Is(inputErr, context.Canceled) {
			logger.Error(logEventInputFailed, zap.Error(inputErr))
		}
		loop.Sync()
	}

	logger.Info(logEventKioskStopped)
	return nil
}

func (application *KioskApplication) openStore(configuration KioskConfig, logger *zap.Logger) (storage.Store, error) {
	store, storeErr := application.storeOpener(configuration.storageConfig(), logger)
	if storeErr != nil {
		logger.Error(loggerContextOpenStore, zap.Error(storeErr))
		return nil, fmt.Errorf("%s: %w", openStoreErrorMessage, storeErr)
	}
	return store, nil
}

func closeStore(store storage.Store, logger *zap.Logger) {
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn(logEventStoreCloseError, zap.Error(closeErr))
	}
}
