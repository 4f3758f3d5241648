//go:build !no_postgres

package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yeisme/hydrogen/pkg/configs"
)

// 关闭预编译语句缓存，兼容 pgbouncer 事务模式.
func postgresDialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}

func init() {
	RegisterDialectorFactory(configs.PostgreSQL, postgresDialector)
}
