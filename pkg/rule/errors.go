package rule

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError 单个字段的校验错误，序列化为 {value, msg, field}.
type FieldError struct {
	Value any    `json:"value"`
	Msg   string `json:"msg"`
	Field string `json:"field,omitempty"`
}

// Format 将校验错误转为可读列表. obj 为被校验的结构体，字段上的 msg 标签优先作为提示.
// 非校验错误（如 JSON 解析失败）返回单条记录.
func Format(obj any, err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Value: "Bad Request", Msg: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Value: fe.Value(),
			Msg:   message(obj, fe),
			Field: fe.Field(),
		})
	}

	return out
}

func message(obj any, fe validator.FieldError) string {
	if m := customMessage(obj, fe.StructNamespace()); m != "" {
		return m
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Must provide %s.", fe.Field())
	case "email":
		return "Must provide a valid email."
	case "strongpassword":
		return PasswordMessage
	case "usstate":
		return fmt.Sprintf("%s must be a valid US state code.", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s).", fe.Field(), fe.Tag())
	}
}

// customMessage 沿结构体命名空间查找字段的 msg 标签.
func customMessage(obj any, namespace string) string {
	t := reflect.TypeOf(obj)
	parts := strings.Split(namespace, ".")

	if len(parts) < 2 {
		return ""
	}

	var field reflect.StructField

	for _, name := range parts[1:] {
		for t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice) {
			t = t.Elem()
		}

		if t == nil || t.Kind() != reflect.Struct {
			return ""
		}

		name, _, _ = strings.Cut(name, "[")

		f, ok := t.FieldByName(name)
		if !ok {
			return ""
		}

		field, t = f, f.Type
	}

	return field.Tag.Get("msg")
}
