//go:build !no_mysql

package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/yeisme/hydrogen/pkg/configs"
)

// utf8mb4 下可索引的 varchar 上限.
const mysqlIndexableSize = 191

func mysqlDialector(dsn string) gorm.Dialector {
	return mysql.New(mysql.Config{
		DSN:               dsn,
		DefaultStringSize: mysqlIndexableSize,
	})
}

func init() {
	RegisterDialectorFactory(configs.MySQL, mysqlDialector)
}
