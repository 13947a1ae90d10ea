package main

import (
	"github.com/spf13/cobra"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/storage"
)

func (application *KioskApplication) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every stored feedback record as CSV to stdout",
		RunE:  application.runExport,
	}
}

func (application *KioskApplication) runExport(command *cobra.Command, arguments []string) error {
	if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
		return argumentsErr
	}
	return application.withStore(func(store storage.Store) error {
		records, listErr := store.List(command.Context())
		if listErr != nil {
			return listErr
		}
		return storage.WriteCSV(command.OutOrStdout(), records)
	})
}
