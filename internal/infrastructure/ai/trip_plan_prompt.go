package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"TripPlanner-App/internal/domain/model"
)

// tripPlanShape はモデルに返してほしいJSONの形
const tripPlanShape = "{ itinerary: { day: number, title: string, activities: { time: string, activity: string, duration: string, cost: string }[] }[], " +
	"budget: { accommodation: number, food: number, transport: number, activities: number, total: number }, " +
	"places: { name: string, category: string, bestTime: string, estimatedCost: string }[], " +
	"food: { name: string, cuisine: string, specialty: string, priceRange: string }[], " +
	"tips: string[] }"

// BuildTripPlanPrompt は入力とポリシーから決定的にプロンプトを構築する
// 入力値はすでに検証済みである前提で、丸めや補正は行わない
func BuildTripPlanPrompt(input model.TripInput, policy *model.PromptPolicy) string {
	preamble := model.DefaultPromptPolicy().Preamble
	if policy != nil && len(policy.Preamble) > 0 {
		preamble = policy.Preamble
	}

	lines := make([]string, 0, 16)
	lines = append(lines, preamble...)
	lines = append(lines,
		"Return ONLY valid JSON (no markdown, no backticks) that matches this shape:",
		tripPlanShape,
		"Constraints:",
		fmt.Sprintf("- itinerary length must equal %d and days must start at 1 and increment by 1", input.Days),
		"- keep costs realistic for the destination and the budget",
		"- budget.total should equal the sum of its parts",
	)
	for _, rule := range policy.RulesFor(input.Destination) {
		lines = append(lines, "- "+rule)
	}
	lines = append(lines,
		fmt.Sprintf("Destination: %s", input.Destination),
		fmt.Sprintf("Days: %d", input.Days),
		fmt.Sprintf("Budget: %d", input.Budget),
		fmt.Sprintf("Travel type: %s", input.TravelType),
		"Input:",
		serializeInput(input),
	)

	return strings.Join(lines, "\n")
}

// serializeInput は入力をJSONにする。目的地の & や < をエスケープしない
func serializeInput(input model.TripInput) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(input); err != nil {
		// TripInput は文字列と整数のみなので失敗しない
		return fmt.Sprintf(`{"destination":%q,"days":%d,"budget":%d,"travelType":%q}`,
			input.Destination, input.Days, input.Budget, input.TravelType)
	}
	return strings.TrimSpace(buf.String())
}
