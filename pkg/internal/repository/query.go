package repository

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// 分页默认值.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	DefaultSort  = "createdAt"
	OrderAsc     = "asc"
	OrderDesc    = "desc"
)

// Query 列表查询参数，Filters 为其余查询键（按子串匹配）.
type Query struct {
	Page    int
	Limit   int
	Sort    string
	Order   string
	Filters map[string]string
}

// ParseQuery 从 URL 查询参数解析分页与过滤条件.
func ParseQuery(values url.Values) Query {
	q := Query{Filters: map[string]string{}}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}

		v := vals[0]

		switch key {
		case "page":
			q.Page, _ = strconv.Atoi(v)
		case "limit":
			q.Limit, _ = strconv.Atoi(v)
		case "sort":
			q.Sort = v
		case "order":
			q.Order = strings.ToLower(v)
		default:
			if v != "" {
				q.Filters[key] = v
			}
		}
	}

	return q.Normalize()
}

// Normalize 填充默认值并约束范围.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}

	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	if q.Sort == "" {
		q.Sort = DefaultSort
	}

	if q.Order != OrderAsc {
		q.Order = OrderDesc
	}

	return q
}

// Pages 计算总页数.
func Pages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}

	return int(math.Ceil(float64(total) / float64(limit)))
}

// Paginate 分页查询，每行写入 total 与 pages. 过滤键只匹配模型的字符串列.
func (s *Store[T, PT]) Paginate(ctx context.Context, q Query) ([]T, error) {
	q = q.Normalize()

	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	sch := stmt.Schema

	filter := func(tx *gorm.DB) *gorm.DB {
		for key, val := range q.Filters {
			f := lookupField(sch, key)
			if f == nil || !isText(f) {
				continue
			}

			tx = tx.Where(clause.Expr{
				SQL:  "LOWER(?) LIKE ?",
				Vars: []any{clause.Column{Name: f.DBName}, "%" + strings.ToLower(val) + "%"},
			})
		}

		return tx
	}

	var total int64
	if err := s.DB(ctx).Model(new(T)).Scopes(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	sortField := lookupField(sch, q.Sort)
	if sortField == nil {
		sortField = lookupField(sch, DefaultSort)
	}

	if sortField == nil {
		sortField = sch.PrioritizedPrimaryField
	}

	rows := make([]T, 0, q.Limit)

	tx := s.DB(ctx).Scopes(filter)
	if sortField != nil {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: sortField.DBName}, Desc: q.Order == OrderDesc})
	}

	if err := tx.Offset((q.Page - 1) * q.Limit).Limit(q.Limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	pages := Pages(total, q.Limit)
	for i := range rows {
		PT(&rows[i]).SetPaging(total, pages)
	}

	return rows, nil
}

// lookupField 依次按 json 名、列名、字段名查找，忽略不序列化的字段.
func lookupField(sch *schema.Schema, key string) *schema.Field {
	if sch == nil || key == "" {
		return nil
	}

	for _, f := range sch.Fields {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || f.DBName == "" {
			continue
		}

		if name == key || f.DBName == key || f.Name == key {
			return f
		}
	}

	return nil
}

func isText(f *schema.Field) bool {
	return f.DataType == schema.String || strings.EqualFold(string(f.DataType), "text")
}
