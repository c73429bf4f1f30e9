package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/config"
	"github.com/garyjia/settlement-portal/internal/infrastructure/directory"
	"github.com/garyjia/settlement-portal/internal/infrastructure/persistence/repository"
	"github.com/garyjia/settlement-portal/internal/infrastructure/persistence/sqldb"
	"github.com/garyjia/settlement-portal/pkg/database"
	"github.com/garyjia/settlement-portal/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	file := flag.String("file", "", "Employee export (.xlsx or .csv)")
	dryRun := flag.Bool("dry-run", false, "Parse the file and print a summary without writing")
	timeout := flag.Duration("timeout", 2*time.Minute, "Import timeout")
	flag.Parse()

	if *file == "" {
		fmt.Fprintf(os.Stderr, "Usage: import-employees --file employees.xlsx [--config configs/config.yaml] [--dry-run]\n")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		Service:    utils.ServiceName,
		Component:  "import-employees",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("Failed to open employee file", zap.String("file", *file), zap.Error(err))
	}
	defer f.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(*file)), ".")
	employees, err := directory.Read(f, format)
	if err != nil {
		logger.Fatal("Failed to read employee file", zap.Error(err))
	}
	logger.Info("Employee file parsed", zap.String("file", *file), zap.Int("employees", len(employees)))

	if *dryRun {
		for _, e := range employees {
			fmt.Printf("%s\t%s\t%s\t%s\n", e.GoogleEmail, e.Name, e.Department, e.Role)
		}
		return
	}

	dbCfg := cfg.ToContainerConfig().Database
	if dbCfg.Driver == "" {
		logger.Fatal("No history database configured; set history.driver or HISTORY_DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.Open(ctx, dbCfg, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repo := repository.NewEmployeeRepository(sqldb.NewDB(db.DB, db.Driver(), logger), logger)
	if err := repo.ReplaceAll(ctx, employees); err != nil {
		logger.Fatal("Failed to import employees", zap.Error(err))
	}

	logger.Info("Employee directory replaced", zap.Int("employees", len(employees)))
}
