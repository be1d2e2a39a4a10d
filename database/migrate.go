package database

import (
	"fmt"
	"log"
	"time"

	"github.com/scholarsknowledge/api/model"
	"gorm.io/gorm"
)

// SchemaMigration tracks which migration versions have been applied.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(255)"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

type migration struct {
	Version int
	Name    string
	Run     func(db *gorm.DB) error
}

// migrations is the ordered, append-only migration list. Each step must
// be idempotent; new schema changes get a new version, existing entries
// are never edited or reordered.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create users",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&model.User{})
		},
	},
	{
		Version: 2,
		Name:    "create password reset tokens",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&model.PasswordResetToken{})
		},
	},
	{
		Version: 3,
		Name:    "create contact messages",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&model.ContactMessage{})
		},
	},
	{
		Version: 4,
		Name:    "create threads and messages",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&model.Thread{}, &model.Message{})
		},
	},
	{
		Version: 5,
		Name:    "create scholarships",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&model.Scholarship{})
		},
	},
	{
		Version: 6,
		Name:    "create cron job logs",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(&model.CronJobLog{})
		},
	},
}

// Migrate applies every unapplied migration in version order, recording
// each one in schema_migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Model(&SchemaMigration{}).Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		log.Printf("Applying migration %d: %s", m.Version, m.Name)
		if err := m.Run(db); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}

		record := SchemaMigration{Version: m.Version, Name: m.Name, AppliedAt: time.Now()}
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}

	return nil
}
