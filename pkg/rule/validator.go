// Package rule 封装 go-playground/validator. 校验标签为 rule，错误中的字段名取自 json 标签，
// 并与 gin 的绑定共用同一个引擎.
package rule

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagName 结构体校验标签名.
const TagName = "rule"

var engine = sync.OnceValue(func() *validator.Validate {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok || v == nil {
		v = validator.New(validator.WithRequiredStructEnabled())
	}

	v.SetTagName(TagName)
	v.RegisterTagNameFunc(jsonName)
	registerCustom(v)

	return v
})

// Init 在处理第一个请求前调用，使 gin 绑定带上自定义规则.
func Init() {
	engine()
}

// Engine 返回共享的校验引擎.
func Engine() *validator.Validate {
	return engine()
}

// ValidateStruct 返回的 error 可交给 Format 转为字段错误列表.
func ValidateStruct(s any) error {
	return engine().Struct(s)
}

// ValidateVar 例如 ValidateVar("abc", "required,email").
func ValidateVar(field any, tag string) error {
	return engine().Var(field, tag)
}

func jsonName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri", "mapstructure"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return f.Name
}
