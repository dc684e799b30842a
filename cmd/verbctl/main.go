package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"verbclash/internal/config"
	"verbclash/internal/database"
	"verbclash/internal/logger"
	"verbclash/internal/repository"
	"verbclash/internal/security"
	"verbclash/internal/service"
)

func main() {
	// Define subcommands
	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	addUserName := addUserCmd.String("name", "", "User name (required)")
	tokenName := tokenCmd.String("name", "", "User name (required)")
	exportOutput := exportCmd.String("output", "", "Output file path (default: export_YYYYMMDD_HHMMSS.json)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()
	log := logger.NewLogger("verbctl", cfg.LogLevel)

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Entry().WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	ctx := context.Background()
	if cfg.MigrationsPath != "" {
		err = db.RunMigrationsFrom(ctx, cfg.MigrationsPath)
	} else {
		err = db.RunMigrations(ctx)
	}
	if err != nil {
		log.Entry().WithError(err).Fatal("Failed to run migrations")
	}

	users := repository.NewUserRepository(db)

	switch os.Args[1] {
	case "adduser":
		addUserCmd.Parse(os.Args[2:])
		name := requireName(addUserCmd, *addUserName)
		user, err := users.CreateUser(ctx, name)
		if err != nil {
			log.Entry().WithError(err).Fatal("Failed to create user")
		}
		fmt.Printf("Created user %q with id %d\n", user.Name, user.ID)

	case "token":
		tokenCmd.Parse(os.Args[2:])
		name := requireName(tokenCmd, *tokenName)
		handleToken(ctx, cfg, users, name, log)

	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(ctx, service.NewExportService(db, log), *exportOutput, log)

	default:
		printUsage()
		os.Exit(1)
	}
}

func requireName(cmd *flag.FlagSet, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: -name flag is required")
		cmd.PrintDefaults()
		os.Exit(1)
	}
	return name
}

func handleToken(ctx context.Context, cfg *config.Config, users *repository.UserRepository, name string, log *logger.Logger) {
	tokens, err := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Entry().WithError(err).Fatal("JWT_SECRET must be set")
	}

	user, err := users.GetUserByName(ctx, name)
	if err != nil {
		log.Entry().WithError(err).Fatal("Failed to look up user")
	}
	if user == nil {
		log.Entry().WithField("name", name).Fatal("No such user")
	}

	token, err := tokens.IssueToken(user.ID, user.Name)
	if err != nil {
		log.Entry().WithError(err).Fatal("Failed to issue token")
	}
	fmt.Println(token)
}

func handleExport(ctx context.Context, exportService *service.ExportService, outputPath string, log *logger.Logger) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("export_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Entry().WithError(err).Fatal("Failed to create output directory")
		}
	}

	if err := exportService.ExportToFile(ctx, outputPath); err != nil {
		log.Entry().WithError(err).Fatal("Export failed")
	}

	if info, err := os.Stat(outputPath); err == nil {
		fmt.Printf("Export complete: %s (%.2f MB)\n", outputPath, float64(info.Size())/1024/1024)
	}
}

func printUsage() {
	fmt.Println("verbclash administration tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  verbctl adduser -name <name>")
	fmt.Println("  verbctl token -name <name>")
	fmt.Println("  verbctl export [-output <file>]")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  DB_TYPE         Database type (sqlite, postgres, mysql)")
	fmt.Println("  DB_PATH         SQLite database path")
	fmt.Println("  DATABASE_URL    Database URL (postgres/mysql)")
	fmt.Println("  JWT_SECRET      Token signing secret (token command)")
}
