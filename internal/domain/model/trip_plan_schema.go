package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// tripPlanDocument はモデル出力を検証するためのスキーマ
// 必須の配列・数値は未指定とゼロ値を区別するためポインタやnilスライスで受ける
type tripPlanDocument struct {
	Itinerary []dayDocument   `json:"itinerary" validate:"required,dive"`
	Budget    *budgetDocument `json:"budget" validate:"required"`
	Places    []placeDocument `json:"places" validate:"required,dive"`
	Food      []foodDocument  `json:"food" validate:"required,dive"`
	Tips      []string        `json:"tips" validate:"required,dive,required"`
}

type dayDocument struct {
	Day        float64            `json:"day" validate:"required,whole,min=1"`
	Title      string             `json:"title" validate:"required"`
	Activities []activityDocument `json:"activities" validate:"required,dive"`
}

type activityDocument struct {
	Time     string `json:"time" validate:"required"`
	Activity string `json:"activity" validate:"required"`
	Duration string `json:"duration" validate:"required"`
	Cost     string `json:"cost" validate:"required"`
}

type budgetDocument struct {
	Accommodation *float64 `json:"accommodation" validate:"required,min=0"`
	Food          *float64 `json:"food" validate:"required,min=0"`
	Transport     *float64 `json:"transport" validate:"required,min=0"`
	Activities    *float64 `json:"activities" validate:"required,min=0"`
	Total         *float64 `json:"total" validate:"required,min=0"`
}

type placeDocument struct {
	Name          string `json:"name" validate:"required"`
	Category      string `json:"category" validate:"required"`
	BestTime      string `json:"bestTime" validate:"required"`
	EstimatedCost string `json:"estimatedCost" validate:"required"`
}

type foodDocument struct {
	Name       string `json:"name" validate:"required"`
	Cuisine    string `json:"cuisine" validate:"required"`
	Specialty  string `json:"specialty" validate:"required"`
	PriceRange string `json:"priceRange" validate:"required"`
}

// ValidateTripPlanJSON は JSON 値を TripPlan のスキーマで検証する
// 型の不一致・必須項目の欠落は最初に違反したパスを持つ SchemaValidationError になる
// スキーマにないフィールドは捨てる
func ValidateTripPlanJSON(raw []byte) (*TripPlan, error) {
	var doc tripPlanDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			path := typeErr.Field
			if path == "" {
				path = "(root)"
			}
			return nil, NewSchemaValidationError(path, fmt.Sprintf("expected %s, got %s", JSONTypeName(typeErr.Type), typeErr.Value))
		}
		// 構文エラーはパース段階で弾いているので通常は到達しない
		return nil, NewSchemaValidationError("(root)", err.Error())
	}

	if err := schemaValidator.Struct(&doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, NewSchemaValidationError(fieldPath(verrs[0]), issueMessage(verrs[0]))
		}
		return nil, NewSchemaValidationError("(root)", err.Error())
	}

	return doc.toTripPlan(), nil
}

// JSONTypeName はGoの型をJSONの型名で表す
func JSONTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int64, reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.String()
	}
}

func (d *tripPlanDocument) toTripPlan() *TripPlan {
	plan := &TripPlan{
		Itinerary: make([]DayItinerary, 0, len(d.Itinerary)),
		Budget: Budget{
			Accommodation: *d.Budget.Accommodation,
			Food:          *d.Budget.Food,
			Transport:     *d.Budget.Transport,
			Activities:    *d.Budget.Activities,
			Total:         *d.Budget.Total,
		},
		Places: make([]Place, 0, len(d.Places)),
		Food:   make([]FoodSpot, 0, len(d.Food)),
		Tips:   append([]string{}, d.Tips...),
	}

	for _, day := range d.Itinerary {
		activities := make([]Activity, 0, len(day.Activities))
		for _, a := range day.Activities {
			activities = append(activities, Activity(a))
		}
		plan.Itinerary = append(plan.Itinerary, DayItinerary{
			Day:        int(day.Day),
			Title:      day.Title,
			Activities: activities,
		})
	}
	for _, p := range d.Places {
		plan.Places = append(plan.Places, Place(p))
	}
	for _, f := range d.Food {
		plan.Food = append(plan.Food, FoodSpot(f))
	}

	return plan
}
