package model

// PreferenceOption は好み選択カードの1項目
type PreferenceOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// PreferenceCategory はカテゴリごとの選択肢
type PreferenceCategory struct {
	Category string             `json:"category"`
	Title    string             `json:"title"`
	Options  []PreferenceOption `json:"options"`
}

// 好みのカテゴリ
const (
	PreferenceTravelType = "travelType"
	PreferenceBudget     = "budget"
	PreferenceStartPoint = "startPoint"
	PreferenceToyTrain   = "toyTrain"
	PreferenceInterests  = "interests"
)

// PreferenceCategoryTitles はカテゴリIDから質問文へのマッピング
var PreferenceCategoryTitles = map[string]string{
	PreferenceTravelType: "Who are you traveling with?",
	PreferenceBudget:     "What is your budget?",
	PreferenceStartPoint: "Where do you want to start?",
	PreferenceToyTrain:   "Do you want the toy train experience?",
	PreferenceInterests:  "What are your interests?",
}

// GetPreferenceCategories は全カテゴリを表示順で返す
func GetPreferenceCategories() []string {
	return []string{
		PreferenceTravelType,
		PreferenceBudget,
		PreferenceStartPoint,
		PreferenceToyTrain,
		PreferenceInterests,
	}
}

// GetPreferenceCategory はカテゴリの選択肢を取得する。未知のカテゴリは false
func GetPreferenceCategory(category string) (PreferenceCategory, bool) {
	options, ok := preferenceOptions()[category]
	if !ok {
		return PreferenceCategory{}, false
	}
	return PreferenceCategory{
		Category: category,
		Title:    PreferenceCategoryTitles[category],
		Options:  options,
	}, true
}

// GetAllPreferenceCategories は全カテゴリの選択肢を取得する
func GetAllPreferenceCategories() []PreferenceCategory {
	categories := make([]PreferenceCategory, 0, len(GetPreferenceCategories()))
	for _, c := range GetPreferenceCategories() {
		pc, _ := GetPreferenceCategory(c)
		categories = append(categories, pc)
	}
	return categories
}

func preferenceOptions() map[string][]PreferenceOption {
	return map[string][]PreferenceOption{
		PreferenceTravelType: {
			{ID: "solo", Label: "Solo Traveler", Value: string(TravelTypeSolo), Description: "Traveling alone"},
			{ID: "friends", Label: "Friends", Value: string(TravelTypeFriends), Description: "Traveling with friends"},
			{ID: "family", Label: "Family", Value: string(TravelTypeFamily), Description: "Traveling with family"},
		},
		PreferenceBudget: {
			{ID: "budget", Label: "Budget ($1,000-2,000)", Value: "budget", Description: "Economical travel"},
			{ID: "moderate", Label: "Moderate ($2,000-5,000)", Value: "moderate", Description: "Comfortable travel"},
			{ID: "luxury", Label: "Luxury ($5,000+)", Value: "luxury", Description: "Premium experience"},
		},
		PreferenceStartPoint: {
			{ID: "bangalore", Label: "Bangalore", Value: "bangalore", Description: "Starting from Bangalore"},
			{ID: "coimbatore", Label: "Coimbatore", Value: "coimbatore", Description: "Starting from Coimbatore"},
			{ID: "mysuru", Label: "Mysuru", Value: "mysuru", Description: "Starting from Mysuru"},
			{ID: "chennai", Label: "Chennai", Value: "chennai", Description: "Starting from Chennai"},
			{ID: "other", Label: "Other", Value: "other", Description: "Different starting point"},
		},
		PreferenceToyTrain: {
			{ID: "yes", Label: "Yes", Value: "yes", Description: "Include toy train experience"},
			{ID: "no", Label: "No", Value: "no", Description: "Skip toy train"},
		},
		PreferenceInterests: {
			{ID: "tea", Label: "Tea Estates", Value: "tea", Description: "Explore tea gardens and plantations"},
			{ID: "hikes", Label: "Hikes", Value: "hikes", Description: "Adventure hiking trails"},
			{ID: "waterfalls", Label: "Waterfalls", Value: "waterfalls", Description: "Scenic waterfalls"},
			{ID: "wildlife", Label: "Wildlife", Value: "wildlife", Description: "Wildlife and nature reserves"},
			{ID: "viewpoints", Label: "Viewpoints", Value: "viewpoints", Description: "Scenic viewpoints and vistas"},
			{ID: "cafes", Label: "Cafés & Shopping", Value: "cafes", Description: "Cafes, restaurants and shopping"},
		},
	}
}
