package handler

import (
	"net/http"

	"TripPlanner-App/internal/domain/model"
)

// ユーザー向けの安定したエラーコード
const (
	CodeInvalidBody          = "INVALID_BODY"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeConfigError          = "CONFIG_ERROR"
	CodeTimeout              = "TIMEOUT"
	CodeUpstreamError        = "UPSTREAM_ERROR"
	CodeInvalidModelResponse = "INVALID_MODEL_RESPONSE"
	CodeInternalError        = "INTERNAL_ERROR"
)

// ErrorResponse はエラー時のレスポンスボディ
type ErrorResponse struct {
	Code    string             `json:"code"`
	Error   string             `json:"error"`
	Details []model.FieldIssue `json:"details,omitempty"`
}

// errorResponseFor はパイプラインのエラー分類をHTTPステータスとレスポンスに変換する
// 上流のレスポンス本文やモデル出力はクライアントに返さない
func errorResponseFor(err error) (int, ErrorResponse) {
	pe, _ := model.AsPlanError(err)

	switch model.KindOf(err) {
	case model.KindInvalidInput:
		return http.StatusBadRequest, ErrorResponse{
			Code:    CodeInvalidBody,
			Error:   "Invalid request body",
			Details: pe.Issues,
		}
	case model.KindMissingCredential:
		return http.StatusInternalServerError, ErrorResponse{
			Code:  CodeConfigError,
			Error: "Trip planning service is not configured",
		}
	case model.KindTimeout:
		return http.StatusGatewayTimeout, ErrorResponse{
			Code:  CodeTimeout,
			Error: "Trip planning timed out. Please try again.",
		}
	case model.KindUpstream:
		return http.StatusBadGateway, ErrorResponse{
			Code:  CodeUpstreamError,
			Error: "Trip planning service is unavailable. Please try again.",
		}
	case model.KindEmptyResponse, model.KindParse, model.KindSchemaValidation:
		return http.StatusBadGateway, ErrorResponse{
			Code:  CodeInvalidModelResponse,
			Error: "Trip planning service returned an unusable plan. Please try again.",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Code:  CodeInternalError,
			Error: "Failed to generate trip plan",
		}
	}
}
