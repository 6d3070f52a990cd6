package database

import (
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/xo/dburl"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tableBot/models"
)

// Open connects to the database named by rawURL and migrates the models.
func Open(rawURL string) (*gorm.DB, error) {
	dialector, err := Dialector(rawURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.BlackjackRound{}, &models.ErrorLog{})
	if err != nil {
		return nil, fmt.Errorf("error migrating database: %v", err)
	}
	return db, nil
}

// Dialector picks the gorm driver from the URL scheme.
func Dialector(rawURL string) (gorm.Dialector, error) {
	u, err := dburl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %v", err)
	}

	switch u.Driver {
	case "mysql":
		dsn := u.DSN
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return mysql.Open(dsn + sep + "charset=utf8mb4&parseTime=True&loc=Local"), nil
	case "sqlite3", "sqlite":
		return sqlite.Open(u.DSN), nil
	case "sqlserver", "mssql":
		connector, err := mssql.NewConnector(u.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid sqlserver dsn: %v", err)
		}
		return sqlserver.New(sqlserver.Config{Conn: sql.OpenDB(connector)}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", u.Driver)
	}
}
