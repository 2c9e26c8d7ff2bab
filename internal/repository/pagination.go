package repository

import "gorm.io/gorm"

// maxListPageSize 仓储层单页上限，避免一次性拉取整批券码
const maxListPageSize = 500

// applyPagination 应用分页参数，pageSize <= 0 表示不分页（导出场景）。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxListPageSize {
		pageSize = maxListPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
