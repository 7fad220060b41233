package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// 校验错误类型,与客户端约定的type取值
const (
	TypeMissing    = "value_error.missing"
	TypeJSONDecode = "value_error.jsondecode"
	TypeNotGE      = "value_error.number.not_ge"
	TypeNotLE      = "value_error.number.not_le"
	TypeMaxLength  = "value_error.any_str.max_length"
	TypeStr        = "type_error.str"
	TypeInteger    = "type_error.integer"
	TypeFloat      = "type_error.float"
	TypeDict       = "type_error.dict"
)

// MaxStringLength title/author的最大字符数,与books表列长度(size:255)一致
const MaxStringLength = 255

// BookRequest 创建/更新图书请求
// 字段使用指针:required只校验"是否出现",0和空字符串都是合法值
// 字符串按字符(rune)计长,原样保存,不做trim
type BookRequest struct {
	Title     *string  `json:"title" binding:"required,max=255" maxLength:"255" example:"Dune"`
	Author    *string  `json:"author" binding:"required,max=255" maxLength:"255" example:"Herbert"`
	Year      *int     `json:"year" binding:"required" example:"1965"`
	Latitude  *float64 `json:"latitude" binding:"required" example:"0"`
	Longitude *float64 `json:"longitude" binding:"required" example:"0"`
}

// ToAppRequest 转换为应用层请求(调用前必须已通过校验)
func (r *BookRequest) ToAppRequest() appbook.BookRequest {
	return appbook.BookRequest{
		Title:     *r.Title,
		Author:    *r.Author,
		Year:      *r.Year,
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
	}
}

// ListBooksQuery GET /books/的查询参数
type ListBooksQuery struct {
	Skip  int
	Limit int
}

// Pagination 分页参数约束
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

var registerOnce sync.Once

// RegisterValidatorTagName 让校验错误使用json字段名(year而不是Year)
func RegisterValidatorTagName() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// BindBook 绑定并校验请求体,失败时返回逐字段错误
func BindBook(c *gin.Context) (*BookRequest, []response.FieldError) {
	RegisterValidatorTagName()

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, BodyErrors(err)
	}
	return &req, nil
}

// BodyErrors 把JSON解码错误和validator错误转换为FieldError列表
func BodyErrors(err error) []response.FieldError {
	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
		syntaxErr      *json.SyntaxError
	)

	switch {
	case errors.As(err, &validationErrs):
		details := make([]response.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, fieldError(fe))
		}
		return details

	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			// 请求体不是JSON对象
			return []response.FieldError{{
				Loc:  []string{"body"},
				Msg:  "value is not a valid dict",
				Type: TypeDict,
			}}
		}
		msg, typ := typeMismatch(typeErr.Type)
		return []response.FieldError{{
			Loc:  append([]string{"body"}, strings.Split(typeErr.Field, ".")...),
			Msg:  msg,
			Type: typ,
		}}

	case errors.As(err, &syntaxErr):
		return []response.FieldError{{
			Loc:  []string{"body"},
			Msg:  fmt.Sprintf("%s (offset %d)", syntaxErr.Error(), syntaxErr.Offset),
			Type: TypeJSONDecode,
		}}

	case errors.Is(err, io.EOF):
		// 空请求体
		return []response.FieldError{{
			Loc:  []string{"body"},
			Msg:  "field required",
			Type: TypeMissing,
		}}

	default:
		return []response.FieldError{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: TypeJSONDecode,
		}}
	}
}

// fieldError validator错误 → FieldError
func fieldError(fe validator.FieldError) response.FieldError {
	loc := []string{"body", fe.Field()}
	switch fe.Tag() {
	case "required":
		return response.FieldError{Loc: loc, Msg: "field required", Type: TypeMissing}
	case "min", "gte":
		return response.FieldError{Loc: loc, Msg: "ensure this value is greater than or equal to " + fe.Param(), Type: TypeNotGE}
	case "max", "lte":
		if isString(fe.Type()) {
			return response.FieldError{Loc: loc, Msg: "ensure this value has at most " + fe.Param() + " characters", Type: TypeMaxLength}
		}
		return response.FieldError{Loc: loc, Msg: "ensure this value is less than or equal to " + fe.Param(), Type: TypeNotLE}
	default:
		return response.FieldError{Loc: loc, Msg: fe.Error(), Type: "value_error." + fe.Tag()}
	}
}

func isString(t reflect.Type) bool {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.String
}

// typeMismatch 按目标字段类型给出错误信息
func typeMismatch(t reflect.Type) (string, string) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "str type expected", TypeStr
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "value is not a valid integer", TypeInteger
	case reflect.Float32, reflect.Float64:
		return "value is not a valid float", TypeFloat
	default:
		return "value is not a valid " + t.Kind().String(), "type_error." + t.Kind().String()
	}
}

// BindListQuery 解析skip/limit,缺省时使用默认值
func BindListQuery(c *gin.Context, p Pagination) (*ListBooksQuery, []response.FieldError) {
	var details []response.FieldError

	skip, errs := queryInt(c, "skip", 0, fmt.Sprintf("min=%d", 0))
	details = append(details, errs...)

	limit, errs := queryInt(c, "limit", p.DefaultLimit, fmt.Sprintf("min=0,max=%d", p.MaxLimit))
	details = append(details, errs...)

	if len(details) > 0 {
		return nil, details
	}
	return &ListBooksQuery{Skip: skip, Limit: limit}, nil
}

// queryInt 读取整数查询参数并按rules校验范围
func queryInt(c *gin.Context, name string, def int, rules string) (int, []response.FieldError) {
	loc := []string{"query", name}

	raw, ok := c.GetQuery(name)
	if !ok {
		return def, nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, []response.FieldError{{Loc: loc, Msg: "value is not a valid integer", Type: TypeInteger}}
	}

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return value, nil
	}
	if err := v.Var(value, rules); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			details := make([]response.FieldError, 0, len(validationErrs))
			for _, fe := range validationErrs {
				fieldErr := fieldError(fe)
				fieldErr.Loc = loc
				details = append(details, fieldErr)
			}
			return 0, details
		}
		return 0, []response.FieldError{{Loc: loc, Msg: err.Error(), Type: TypeInteger}}
	}
	return value, nil
}
