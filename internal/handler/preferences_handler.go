package handler

import (
	"net/http"

	"TripPlanner-App/internal/domain/model"

	"github.com/gin-gonic/gin"
)

// PreferencesHandler は好み選択肢のカタログを返すハンドラー
type PreferencesHandler struct{}

// NewPreferencesHandler は新しいPreferencesHandlerインスタンスを作成
func NewPreferencesHandler() *PreferencesHandler {
	return &PreferencesHandler{}
}

// GetPreferences GET /api/trip-preferences - 全カテゴリの選択肢を取得
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": model.GetAllPreferenceCategories(),
	})
}

// GetPreferenceCategory GET /api/trip-preferences/:category - カテゴリの選択肢を取得
func (h *PreferencesHandler) GetPreferenceCategory(c *gin.Context) {
	category, ok := model.GetPreferenceCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:  "NOT_FOUND",
			Error: "Unknown preference category",
		})
		return
	}
	c.JSON(http.StatusOK, category)
}
