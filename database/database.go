package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectRetryDelay = 5 * time.Second

// Connect opens the database selected by cfg.DBDriver.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return OpenSQLite(cfg.DatabaseURL)
	}
	return OpenPostgres(cfg.DatabaseURL, cfg.DBConnectRetries)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: gormlogger.New(log.New(os.Stderr, "", log.LstdFlags), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// OpenPostgres connects with retries; the database container usually
// comes up after the API in compose setups.
func OpenPostgres(dsn string, retries int) (*gorm.DB, error) {
	if retries < 1 {
		retries = 1
	}

	var db *gorm.DB
	var err error
	for i := 0; i < retries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig())
		if err == nil {
			break
		}
		slog.Warn("database connection attempt failed",
			slog.Int("attempt", i+1),
			slog.Int("max_attempts", retries),
			slog.String("error", err.Error()),
		)
		if i < retries-1 {
			time.Sleep(connectRetryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// OpenSQLite opens a sqlite database for local development and tests.
// The pool is pinned to one connection because every connection to
// ":memory:" would otherwise get its own empty database.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.Listing{},
		&models.Session{},
		&models.Review{},
		&models.UserSkill{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var defaultSkills = []models.Skill{
	{Name: "Python Programming", Category: "Technology"},
	{Name: "JavaScript", Category: "Technology"},
	{Name: "Web Development", Category: "Technology"},
	{Name: "Guitar Lessons", Category: "Music"},
	{Name: "Cooking", Category: "Lifestyle"},
	{Name: "Photography", Category: "Creative"},
	{Name: "Yoga", Category: "Fitness"},
	{Name: "Spanish Language", Category: "Language"},
}

// SeedSkills inserts the starter catalog. Skills that already exist by
// name are left untouched, so it is safe to run on every start.
func SeedSkills(db *gorm.DB) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, s := range defaultSkills {
			var existing models.Skill
			err := tx.Where("name = ?", s.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			skill := s
			if err := tx.Create(&skill).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed skills: %w", err)
	}
	return created, nil
}
