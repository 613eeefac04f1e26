package database

import (
	"amadeus_backend/internal/config"
	"amadeus_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == "postgres" {
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn)
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)
	return mysql.Open(dsn)
}

// GormConfig 唯一索引冲突转换为 gorm.ErrDuplicatedKey，仓储层依赖这一点
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
}

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(cfg), GormConfig())
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Subject{},
		&model.Topic{},
		&model.Tag{},
		&model.Resource{},
		&model.Question{},
		&model.Alternative{},
		&model.Questionary{},
		&model.Specification{},
		&model.UserQuest{},
		&model.UserAnswer{},
		&model.Log{},
		&model.SubjectPost{},
		&model.Comment{},
		&model.MuralVisualization{},
		&model.Conversation{},
		&model.TalkMessage{},
		&model.ChatVisualization{},
		&model.ReportCSV{},
		&model.ReportXLS{},
	)
}
