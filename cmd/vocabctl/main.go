package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/wordduel-api/internal/config"
	pgRepo "github.com/yourusername/wordduel-api/internal/repository/postgres"
	"github.com/yourusername/wordduel-api/internal/service"
	"github.com/yourusername/wordduel-api/pkg/database"
)

const usage = `vocabctl - операторские команды wordduel-api

Использование:
  vocabctl [--config path] migrate up
  vocabctl [--config path] migrate force <version>
  vocabctl [--config path] version
  vocabctl [--config path] grant-root <username>
  vocabctl [--config path] import-csv --dict <id> --file <path>
`

func main() {
	flagConfig := pflag.String("config", envOr("CONFIG_PATH", "config/config.yaml"), "path to config file")
	flagDict := pflag.Uint("dict", 0, "dictionary id for import-csv")
	flagFile := pflag.String("file", "", "csv file for import-csv")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	args := pflag.Args()
	if len(args) == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fail("не удалось загрузить конфигурацию: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), logger.Warn)
	if err != nil {
		fail("не удалось подключиться к БД: %v", err)
	}

	switch args[0] {
	case "migrate":
		runMigrate(db, cfg.Database.MigrationsPath, args[1:])
	case "version":
		version, dirty, err := database.MigrationVersion(db, cfg.Database.MigrationsPath)
		if err != nil {
			fail("не удалось получить версию схемы: %v", err)
		}
		if dirty {
			color.Yellow("версия схемы: %d (dirty)", version)
			return
		}
		color.Green("версия схемы: %d", version)
	case "grant-root":
		if len(args) != 2 {
			fail("использование: vocabctl grant-root <username>")
		}
		users := pgRepo.NewUserRepo(db)
		admin := service.NewAdminService(users, service.NewUserService(users, nil, 0, 0))
		user, err := admin.GrantRoot(args[1])
		if err != nil {
			fail("grant-root: %v", err)
		}
		color.Green("пользователь %s (id=%d) теперь root", user.Username, user.ID)
	case "import-csv":
		if *flagDict == 0 || *flagFile == "" {
			fail("использование: vocabctl import-csv --dict <id> --file <path>")
		}
		content, err := os.ReadFile(*flagFile)
		if err != nil {
			fail("не удалось прочитать %s: %v", *flagFile, err)
		}
		dicts := service.NewDictionaryService(pgRepo.NewDictionaryRepo(db), pgRepo.NewWordRepo(db))
		n, err := dicts.ImportCSV(uint(*flagDict), string(content))
		if err != nil {
			fail("import-csv: %v", err)
		}
		color.Green("импортировано слов: %d", n)
	default:
		pflag.Usage()
		os.Exit(2)
	}
}

func runMigrate(db *gorm.DB, sourceURL string, args []string) {
	if len(args) == 0 {
		fail("использование: vocabctl migrate up | migrate force <version>")
	}
	switch args[0] {
	case "up":
		if err := database.MigrateDB(db, sourceURL); err != nil {
			fail("миграция не удалась: %v", err)
		}
		color.Green("миграции применены")
	case "force":
		if len(args) != 2 {
			fail("использование: vocabctl migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			fail("некорректная версия %q", args[1])
		}
		if err := database.MigrateForce(db, sourceURL, version); err != nil {
			fail("не удалось установить версию: %v", err)
		}
		color.Yellow("версия схемы принудительно установлена в %d", version)
	default:
		fail("неизвестная подкоманда migrate: %s", args[0])
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(format string, args ...interface{}) {
	color.Red(format, args...)
	os.Exit(1)
}
