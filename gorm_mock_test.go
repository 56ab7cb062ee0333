package stockview

import (
	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openGORMMock(dialector func(conn *sql.DB) gorm.Dialector) (*gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(dialector(mockDB), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}

	return db.Debug(), mock, nil
}

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	db, mock, err := openGORMMock(func(conn *sql.DB) gorm.Dialector {
		return mysql.New(mysql.Config{
			Conn:                      conn,
			SkipInitializeWithVersion: true,
		})
	})

	return "mysql", db, mock, err
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	db, mock, err := openGORMMock(func(conn *sql.DB) gorm.Dialector {
		return postgres.New(postgres.Config{Conn: conn})
	})

	return "postgres", db, mock, err
}
