package service

import (
	"fmt"
	"math"

	"TripPlanner-App/internal/domain/model"
)

// budgetTolerance は合計と内訳の差として許容する誤差
const budgetTolerance = 0.5

// CheckPlanConsistency はプロンプトでモデルに要求した制約を確認し、違反を警告として返す
// スキーマ検証とは異なりプランを拒否しない
func CheckPlanConsistency(plan *model.TripPlan, input model.TripInput) []string {
	if plan == nil {
		return nil
	}

	var warnings []string

	if len(plan.Itinerary) != input.Days {
		warnings = append(warnings, fmt.Sprintf("itinerary has %d day(s), requested %d", len(plan.Itinerary), input.Days))
	}

	for i, day := range plan.Itinerary {
		if day.Day != i+1 {
			warnings = append(warnings, fmt.Sprintf("itinerary[%d].day is %d, expected %d", i, day.Day, i+1))
			break
		}
	}

	if sum := plan.Budget.Sum(); math.Abs(sum-plan.Budget.Total) > budgetTolerance {
		warnings = append(warnings, fmt.Sprintf("budget.total %.2f does not equal the sum of its parts %.2f", plan.Budget.Total, sum))
	}

	return warnings
}
