package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgresDialect(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// dayExprByDialect 按日分组表达式，输出 YYYY-MM-DD 文本
func dayExprByDialect(dialect, column string) string {
	if isPostgresDialect(dialect) {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
	}
	return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column)
}

// hourExprByDialect 按小时分组表达式，输出 0-23 整数
func hourExprByDialect(dialect, column string) string {
	if isPostgresDialect(dialect) {
		return fmt.Sprintf("CAST(EXTRACT(HOUR FROM %s) AS INTEGER)", column)
	}
	return fmt.Sprintf("CAST(strftime('%%H', %s) AS INTEGER)", column)
}

func likeOperatorByDialect(dialect string) string {
	if isPostgresDialect(dialect) {
		return "ILIKE"
	}
	return "LIKE"
}
