package model

// TripPlan は検証済みの旅行プラン
type TripPlan struct {
	Itinerary []DayItinerary `json:"itinerary"`
	Budget    Budget         `json:"budget"`
	Places    []Place        `json:"places"`
	Food      []FoodSpot     `json:"food"`
	Tips      []string       `json:"tips"`
}

// DayItinerary は1日分の行程
type DayItinerary struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// Activity は行程内の1アクティビティ。時刻・所要時間・費用は表示用の自由文字列
type Activity struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Duration string `json:"duration"`
	Cost     string `json:"cost"`
}

// Budget は予算の内訳
type Budget struct {
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Transport     float64 `json:"transport"`
	Activities    float64 `json:"activities"`
	Total         float64 `json:"total"`
}

// Sum は内訳の合計
func (b Budget) Sum() float64 {
	return b.Accommodation + b.Food + b.Transport + b.Activities
}

// Place は観光スポット
type Place struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	BestTime      string `json:"bestTime"`
	EstimatedCost string `json:"estimatedCost"`
}

// FoodSpot はおすすめの飲食店
type FoodSpot struct {
	Name       string `json:"name"`
	Cuisine    string `json:"cuisine"`
	Specialty  string `json:"specialty"`
	PriceRange string `json:"priceRange"`
}

// PlanProvenance はプランの出所
type PlanProvenance string

const (
	// ProvenanceModel は生成APIの出力を検証したプラン
	ProvenanceModel PlanProvenance = "model"
	// ProvenanceFallback は入力からローカルに組み立てた代替プラン
	ProvenanceFallback PlanProvenance = "fallback"
)

// PlanResult はユースケースの戻り値
type PlanResult struct {
	Plan       *TripPlan
	Provenance PlanProvenance
	// Warnings は整合性チェックの結果（プランは拒否しない）
	Warnings []string
}

// FallbackPolicy は失敗時の振る舞い
type FallbackPolicy string

const (
	// FallbackStrict は失敗をそのまま呼び出し元に返す
	FallbackStrict FallbackPolicy = "strict"
	// FallbackDegraded は失敗時に代替プランを返す
	FallbackDegraded FallbackPolicy = "degraded"
)

// ParseFallbackPolicy は設定値を FallbackPolicy に変換する
func ParseFallbackPolicy(s string) (FallbackPolicy, bool) {
	switch FallbackPolicy(s) {
	case FallbackStrict, FallbackDegraded:
		return FallbackPolicy(s), true
	default:
		return "", false
	}
}
