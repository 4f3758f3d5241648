// Package model 定义持久化实体，业务主键即自增主键.
package model

// Paging 分页元数据，逐行附带在列表结果中.
type Paging struct {
	Total int64 `json:"total,omitempty"`
	Pages int   `json:"pages,omitempty"`
}

// SetPaging 写入总数与页数.
func (p *Paging) SetPaging(total int64, pages int) {
	p.Total = total
	p.Pages = pages
}

// All 返回需要迁移的全部模型.
func All() []any {
	return []any{
		&User{},
		&Role{},
		&Permission{},
		&Tag{},
		&Song{},
		&Video{},
		&Login{},
		&Code{},
	}
}
