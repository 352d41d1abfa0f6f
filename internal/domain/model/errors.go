package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind はプラン生成パイプラインの失敗分類
type ErrorKind int

const (
	// KindInternal は未分類のエラー
	KindInternal ErrorKind = iota
	KindInvalidInput
	KindMissingCredential
	KindTimeout
	KindUpstream
	KindEmptyResponse
	KindParse
	KindSchemaValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindMissingCredential:
		return "MissingCredential"
	case KindTimeout:
		return "Timeout"
	case KindUpstream:
		return "UpstreamError"
	case KindEmptyResponse:
		return "EmptyResponse"
	case KindParse:
		return "ParseError"
	case KindSchemaValidation:
		return "SchemaValidationError"
	default:
		return "InternalError"
	}
}

// FieldIssue は入力検証エラーの1項目
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// PlanError はパイプラインの各コンポーネントが境界を越える前に分類したエラー
type PlanError struct {
	Kind    ErrorKind
	Message string

	// UpstreamError のみ
	StatusCode int
	StatusText string

	// SchemaValidationError のみ
	Path string

	// ParseError のみ。診断用に切り詰めたモデル出力の先頭部分
	Preview string

	// InvalidInput のみ
	Issues []FieldIssue

	Err error
}

func (e *PlanError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// KindOf はエラーチェーンから分類を取り出す。PlanError を含まない場合は KindInternal
func KindOf(err error) ErrorKind {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// AsPlanError はエラーチェーンから PlanError を取り出す
func AsPlanError(err error) (*PlanError, bool) {
	var pe *PlanError
	ok := errors.As(err, &pe)
	return pe, ok
}

func NewInvalidInputError(issues []FieldIssue) *PlanError {
	return &PlanError{Kind: KindInvalidInput, Message: "invalid trip input", Issues: issues}
}

func NewMissingCredentialError() *PlanError {
	return &PlanError{Kind: KindMissingCredential, Message: "generation API key is not configured"}
}

func NewTimeoutError(err error) *PlanError {
	return &PlanError{Kind: KindTimeout, Message: "generation request timed out", Err: err}
}

func NewUpstreamError(statusCode int, statusText string) *PlanError {
	return &PlanError{
		Kind:       KindUpstream,
		Message:    fmt.Sprintf("generation API error (%d %s)", statusCode, statusText),
		StatusCode: statusCode,
		StatusText: statusText,
	}
}

func NewEmptyResponseError(reason string) *PlanError {
	return &PlanError{Kind: KindEmptyResponse, Message: reason}
}

func NewParseError(preview string, err error) *PlanError {
	return &PlanError{Kind: KindParse, Message: "failed to parse JSON from model response", Preview: preview, Err: err}
}

func NewSchemaValidationError(path, message string) *PlanError {
	return &PlanError{Kind: KindSchemaValidation, Message: fmt.Sprintf("%s: %s", path, message), Path: path}
}

func NewInternalError(err error) *PlanError {
	return &PlanError{Kind: KindInternal, Message: "unexpected failure", Err: err}
}
