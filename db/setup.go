package db

import (
	"fmt"

	"github.com/defectrack/defectrack/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(driver, dsn string) error {
	var dialector gorm.Dialector

	switch driver {
	case "", "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})

	if err != nil {
		return err
	}

	DB = conn

	return nil
}

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Company{},
		&models.User{},
		&models.Project{},
		&models.ProjectEngineer{},
		&models.Defect{},
	}
}

func MigrateDatabase() error {
	return Migrate(DB)
}

func Migrate(conn *gorm.DB) error {
	migrator := conn.Migrator()

	for _, model := range Models() {
		if !migrator.HasTable(model) {
			if err := conn.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
