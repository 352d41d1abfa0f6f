package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/logger"
	"TripPlanner-App/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProvenanceHeader はプランの出所（model / fallback）を示すレスポンスヘッダー
const ProvenanceHeader = "X-Plan-Provenance"

// TripPlanHandler は旅行プランAPIのハンドラー
type TripPlanHandler struct {
	planUseCase usecase.TripPlanUseCase
}

// NewTripPlanHandler は新しいTripPlanHandlerインスタンスを作成
func NewTripPlanHandler(planUseCase usecase.TripPlanUseCase) *TripPlanHandler {
	return &TripPlanHandler{
		planUseCase: planUseCase,
	}
}

// PostTripPlan は旅行プランを生成するエンドポイント
// POST /api/trip-plan
func (h *TripPlanHandler) PostTripPlan(c *gin.Context) {
	var req model.TripPlanRequest

	// リクエストボディのバインド
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Code:  CodePayloadTooLarge,
				Error: fmt.Sprintf("Request body must not exceed %d bytes", tooLarge.Limit),
			})
			return
		}
		h.respondError(c, model.NewInvalidInputError(bindIssues(err)))
		return
	}

	// バリデーション
	input, err := req.ToTripInput()
	if err != nil {
		h.respondError(c, err)
		return
	}

	// UseCase呼び出し
	result, err := h.planUseCase.GeneratePlan(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 成功レスポンス
	c.Header(ProvenanceHeader, string(result.Provenance))
	c.JSON(http.StatusOK, result.Plan)
}

func (h *TripPlanHandler) respondError(c *gin.Context, err error) {
	status, body := errorResponseFor(err)
	if status >= http.StatusInternalServerError {
		logger.Log.Error("❌ 旅行プランAPIエラー",
			zap.String("requestId", model.RequestIDFrom(c.Request.Context())),
			zap.Int("status", status),
			zap.String("code", body.Code),
			zap.Error(err),
		)
	}
	c.JSON(status, body)
}

// bindIssues はJSONデコードのエラーを FieldIssue に変換する
func bindIssues(err error) []model.FieldIssue {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return []model.FieldIssue{{
			Path:    typeErr.Field,
			Message: fmt.Sprintf("expected %s, got %s", model.JSONTypeName(typeErr.Type), typeErr.Value),
		}}
	case errors.As(err, &syntaxErr):
		return []model.FieldIssue{{Path: "", Message: "malformed JSON"}}
	case errors.Is(err, io.EOF):
		return []model.FieldIssue{{Path: "", Message: "request body is required"}}
	default:
		return []model.FieldIssue{{Path: "", Message: "request body must be a JSON object"}}
	}
}
