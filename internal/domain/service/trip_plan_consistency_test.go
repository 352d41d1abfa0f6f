package service

import (
	"math"
	"testing"

	"TripPlanner-App/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPlanConsistency(t *testing.T) {
	input := model.TripInput{Destination: "Ooty", Days: 2, Budget: 1000, TravelType: model.TravelTypeFamily}

	t.Run("整合しているプランは警告なし", func(t *testing.T) {
		plan := &model.TripPlan{
			Itinerary: []model.DayItinerary{{Day: 1}, {Day: 2}},
			Budget:    model.Budget{Accommodation: 400, Food: 250, Transport: 150, Activities: 200, Total: 1000},
		}
		assert.Empty(t, CheckPlanConsistency(plan, input))
	})

	t.Run("日数・日番号・予算合計の不一致を警告する", func(t *testing.T) {
		plan := &model.TripPlan{
			Itinerary: []model.DayItinerary{{Day: 1}, {Day: 3}, {Day: 4}},
			Budget:    model.Budget{Accommodation: 400, Food: 250, Transport: 150, Activities: 200, Total: 1200},
		}
		warnings := CheckPlanConsistency(plan, input)
		require.Len(t, warnings, 3)
		assert.Contains(t, warnings[0], "itinerary has 3 day(s), requested 2")
		assert.Contains(t, warnings[1], "itinerary[1].day is 3")
		assert.Contains(t, warnings[2], "budget.total")
	})

	t.Run("小さな丸め誤差は許容する", func(t *testing.T) {
		plan := &model.TripPlan{
			Itinerary: []model.DayItinerary{{Day: 1}, {Day: 2}},
			Budget:    model.Budget{Accommodation: 333.33, Food: 333.33, Transport: 333.33, Activities: 0, Total: 1000},
		}
		assert.Empty(t, CheckPlanConsistency(plan, input))
	})

	t.Run("nil プラン", func(t *testing.T) {
		assert.Nil(t, CheckPlanConsistency(nil, input))
	})
}

func TestBuildFallbackPlan(t *testing.T) {
	t.Run("入力の日数と予算に合わせる", func(t *testing.T) {
		input := model.TripInput{Destination: "Lisbon, Portugal", Days: 4, Budget: 1999, TravelType: model.TravelTypeSolo}

		plan := BuildFallbackPlan(input)

		require.Len(t, plan.Itinerary, 4)
		for i, day := range plan.Itinerary {
			assert.Equal(t, i+1, day.Day)
			assert.NotEmpty(t, day.Activities)
		}
		assert.Contains(t, plan.Itinerary[0].Title, "Lisbon")
		assert.NotContains(t, plan.Itinerary[0].Title, "Portugal")
		assert.Contains(t, plan.Itinerary[3].Title, "Departure")

		assert.Equal(t, 1999.0, plan.Budget.Total)
		assert.Equal(t, plan.Budget.Total, plan.Budget.Sum())
		assert.Empty(t, CheckPlanConsistency(plan, input))
	})

	t.Run("1日だけの旅行", func(t *testing.T) {
		plan := BuildFallbackPlan(model.TripInput{Destination: "Kyoto", Days: 1, Budget: 0, TravelType: model.TravelTypeFriends})
		require.Len(t, plan.Itinerary, 1)
		assert.Contains(t, plan.Itinerary[0].Title, "Arrival")
		assert.Equal(t, 0.0, plan.Budget.Sum())
	})

	t.Run("大きな予算でも配分が負にならない", func(t *testing.T) {
		for _, budget := range []int{model.MaxTripBudget, math.MaxInt} {
			plan := BuildFallbackPlan(model.TripInput{Destination: "Jakarta", Days: 2, Budget: budget, TravelType: model.TravelTypeFamily})

			b := plan.Budget
			assert.Equal(t, float64(budget), b.Total)
			for _, share := range []float64{b.Accommodation, b.Food, b.Transport, b.Activities} {
				assert.GreaterOrEqual(t, share, 0.0, "budget: %d", budget)
			}
			assert.Greater(t, b.Accommodation, b.Food)
		}
	})

	t.Run("スキーマを満たす", func(t *testing.T) {
		plan := BuildFallbackPlan(model.TripInput{Destination: "Ooty", Days: 3, Budget: 500, TravelType: model.TravelTypeFamily})
		assert.NotEmpty(t, plan.Places)
		assert.NotEmpty(t, plan.Food)
		assert.NotEmpty(t, plan.Tips)
	})
}
