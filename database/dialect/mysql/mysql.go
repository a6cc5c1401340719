package mysql

import (
	"gorm.io/driver/mysql"
	"goyave.dev/emailvalidator/database"
)

func init() {
	database.RegisterDialect("mysql", "{username}:{password}@({host}:{port})/{name}?{options}", mysql.Open)
}
