package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frahmantamala/expense-tracker/internal/database"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"
	"github.com/frahmantamala/expense-tracker/internal/importer"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	importFile    string
	importVerbose bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load expenses from a JSON file",
	Long:  `Run the bulk loader once and report how many records were inserted, skipped as duplicates or rejected.`,
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file to load (defaults to import.data_file)")
	importCmd.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "print every stored expense after the load")
}

func runImport(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Open(cfg.Database, lg)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close db: %w", closeErr)
		}
	}()

	if err := database.EnsureSchema(db); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	path := importFile
	if path == "" {
		path = cfg.Import.DataFile
	}

	ctx := context.Background()
	result, err := importer.NewLoader(db, newEventBus(lg), lg).LoadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %s: %d inserted, %d duplicates, %d skipped\n",
		path, result.Inserted, result.Duplicates, result.Skipped)

	if !importVerbose {
		return nil
	}

	rows, err := expensePostgres.NewExpenseRepository(db).GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	views := make([]expense.FullView, 0, len(rows))
	for _, e := range expense.FromDataModelSlice(rows) {
		views = append(views, e.FullView())
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(views); err != nil {
		return fmt.Errorf("failed to print expenses: %w", err)
	}
	return nil
}

