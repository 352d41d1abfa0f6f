package service

import (
	"fmt"
	"math"
	"strings"

	"TripPlanner-App/internal/domain/model"
)

// BuildFallbackPlan は生成APIが使えない場合の代替プランを入力から決定的に組み立てる
// 日数は入力と同じ、予算は 宿泊40% / 食事25% / 交通15% / 残りをアクティビティに配分する
func BuildFallbackPlan(input model.TripInput) *model.TripPlan {
	destination := shortDestination(input.Destination)

	itinerary := make([]model.DayItinerary, 0, input.Days)
	for i := 0; i < input.Days; i++ {
		itinerary = append(itinerary, model.DayItinerary{
			Day:        i + 1,
			Title:      fallbackDayTitle(destination, i, input.Days),
			Activities: fallbackActivities(destination, i),
		})
	}

	// 配分は float64 で計算し、端数は切り捨ててアクティビティに回す
	total := float64(input.Budget)
	accommodation := math.Floor(total * 0.40)
	food := math.Floor(total * 0.25)
	transport := math.Floor(total * 0.15)
	activities := total - accommodation - food - transport

	return &model.TripPlan{
		Itinerary: itinerary,
		Budget: model.Budget{
			Accommodation: accommodation,
			Food:          food,
			Transport:     transport,
			Activities:    activities,
			Total:         total,
		},
		Places: []model.Place{
			{Name: destination + " Main Market", Category: "Shopping", BestTime: "Morning", EstimatedCost: "$10-20"},
			{Name: destination + " Historic Site", Category: "Historical Site", BestTime: "Afternoon", EstimatedCost: "$15-25"},
			{Name: destination + " Scenic Viewpoint", Category: "Viewpoint", BestTime: "Sunset", EstimatedCost: "Free"},
		},
		Food: []model.FoodSpot{
			{Name: destination + " Street Food Market", Cuisine: "Local", Specialty: "Traditional dishes", PriceRange: "$"},
			{Name: "Cozy Cafe in " + destination, Cuisine: "Cafe", Specialty: "Coffee and pastries", PriceRange: "$$"},
		},
		Tips: []string{
			"This plan was generated without the planning service; verify opening hours and prices locally",
			"Book accommodations in advance during peak season",
			"Use local transportation for an authentic experience",
		},
	}
}

// shortDestination は "Lisbon, Portugal" のような目的地から先頭部分を取り出す
func shortDestination(destination string) string {
	name := strings.TrimSpace(strings.SplitN(destination, ",", 2)[0])
	if name == "" {
		return strings.TrimSpace(destination)
	}
	return name
}

func fallbackDayTitle(destination string, index, days int) string {
	switch {
	case index == 0:
		return fmt.Sprintf("Arrival & Exploration in %s", destination)
	case index == days-1:
		return fmt.Sprintf("Final Day & Departure from %s", destination)
	default:
		return fmt.Sprintf("%s Adventure - Day %d", destination, index+1)
	}
}

func fallbackActivities(destination string, index int) []model.Activity {
	first := model.Activity{Time: "08:00", Activity: "Breakfast at a local cafe", Duration: "1.5 hours", Cost: "$15"}
	if index == 0 {
		first = model.Activity{Time: "08:00", Activity: fmt.Sprintf("Arrive in %s and check in", destination), Duration: "1 hour", Cost: "$15"}
	}

	return []model.Activity{
		first,
		{Time: "10:00", Activity: fmt.Sprintf("Explore %s main attractions", destination), Duration: "3 hours", Cost: "$30"},
		{Time: "13:00", Activity: "Lunch at a local restaurant", Duration: "1.5 hours", Cost: "$20"},
		{Time: "15:00", Activity: fmt.Sprintf("Visit a popular %s viewpoint", destination), Duration: "2 hours", Cost: "$25"},
		{Time: "18:00", Activity: "Dinner at a recommended restaurant", Duration: "2 hours", Cost: "$35"},
	}
}
