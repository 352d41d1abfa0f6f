package model

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TravelType は旅行スタイル
type TravelType string

const (
	TravelTypeSolo    TravelType = "solo"
	TravelTypeFriends TravelType = "friends"
	TravelTypeFamily  TravelType = "family"
)

// 入力値の範囲
const (
	MinTripDays = 1
	MaxTripDays = 30
	// MaxTripBudget はJSONの数値で正確に表せる最大の整数 (2^53-1)
	MaxTripBudget = 1<<53 - 1
)

// TripInput は検証済みの旅行条件。リクエストごとに一度だけ生成され、以後変更されない
type TripInput struct {
	Destination string     `json:"destination"`
	Days        int        `json:"days"`
	Budget      int        `json:"budget"`
	TravelType  TravelType `json:"travelType"`
}

// TripPlanRequest は POST /api/trip-plan のリクエストボディ
// 未指定とゼロ値を区別するためポインタで受ける
// 日数と予算は 3.0 のような整数値の小数表記も受け付けるため float64 で受けて whole で検査する
type TripPlanRequest struct {
	Destination *string  `json:"destination" validate:"required,min=1"`
	Days        *float64 `json:"days" validate:"required,whole,min=1,max=30"`
	Budget      *float64 `json:"budget" validate:"required,whole,min=0,max=9007199254740991"`
	TravelType  *string  `json:"travelType" validate:"required,oneof=solo friends family"`
}

// schemaValidator はリクエスト・プランの検証で共有するバリデータ（読み取り専用）
var schemaValidator = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// whole は小数部のない数値のみ許可する
	_ = v.RegisterValidation("whole", isWholeNumber)
	// エラーパスにはGoのフィールド名ではなくJSONのキー名を使う
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func isWholeNumber(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		x := f.Float()
		return !math.IsInf(x, 0) && x == math.Trunc(x)
	default:
		return true
	}
}

// Validate はリクエストを検証し、違反があれば全フィールド分の FieldIssue を返す
func (r *TripPlanRequest) Validate() []FieldIssue {
	err := schemaValidator.Struct(r)
	if err == nil {
		return nil
	}
	return fieldIssuesFrom(err)
}

// ToTripInput は検証を行い、成功した場合に TripInput を返す
func (r *TripPlanRequest) ToTripInput() (TripInput, error) {
	if issues := r.Validate(); len(issues) > 0 {
		return TripInput{}, NewInvalidInputError(issues)
	}
	return TripInput{
		Destination: *r.Destination,
		Days:        int(*r.Days),
		Budget:      int(*r.Budget),
		TravelType:  TravelType(*r.TravelType),
	}, nil
}

// fieldIssuesFrom は validator のエラーを FieldIssue の一覧に変換する
func fieldIssuesFrom(err error) []FieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldIssue{{Path: "", Message: err.Error()}}
	}

	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{
			Path:    fieldPath(fe),
			Message: issueMessage(fe),
		})
	}
	return issues
}

// fieldPath は "TripPlanRequest.days" のような名前空間からルート型名を取り除く
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must contain at least %s character(s)", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must contain at most %s character(s)", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "whole":
		return "must be an integer"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
