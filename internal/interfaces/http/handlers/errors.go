package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/turtacn/credscore/internal/application/dto"
	"github.com/turtacn/credscore/pkg/errors"
)

const (
	messageModelNotLoaded = "Model not loaded"
	messageRejected       = "Application rejected due to validation errors"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validator errors report json names, so 422 locations match the wire format.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// writeError maps an application error to the HTTP response shape clients expect.
// writeError 将应用层错误映射为客户端期望的响应格式。
func writeError(c *gin.Context, err error) {
	svcErr, ok := errors.AsServiceError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, errors.ToGenericErrorResponse(err))
		return
	}

	switch {
	case errors.IsValidationFailed(svcErr):
		c.JSON(http.StatusBadRequest, dto.RejectionResponse{
			Detail: dto.RejectionDetail{Message: messageRejected, Errors: errors.Reasons(svcErr)},
		})
	case errors.IsModelUnavailable(svcErr):
		c.JSON(http.StatusServiceUnavailable, dto.DetailResponse{Detail: messageModelNotLoaded})
	case svcErr.HTTPStatus() == http.StatusUnprocessableEntity:
		c.JSON(http.StatusUnprocessableEntity, dto.SchemaErrorResponse{Detail: []dto.SchemaErrorItem{{
			Loc:  []string{"body"},
			Msg:  svcErr.Error(),
			Type: "missing",
		}}})
	default:
		c.JSON(svcErr.HTTPStatus(), errors.ToErrorResponse(svcErr))
	}
}

// schemaErrors converts a binding failure into 422 detail items.
func schemaErrors(err error) []dto.SchemaErrorItem {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		items := make([]dto.SchemaErrorItem, 0, len(verrs))
		for _, fe := range verrs {
			items = append(items, fieldErrorItem(fe))
		}
		return items
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return []dto.SchemaErrorItem{{
			Loc:  []string{"body", typeErr.Field},
			Msg:  fmt.Sprintf("Input should be a valid %s", typeErr.Type.Kind()),
			Type: typeErr.Type.Kind().String() + "_type",
		}}
	}

	if stderrors.Is(err, io.EOF) {
		return []dto.SchemaErrorItem{{Loc: []string{"body"}, Msg: "Field required", Type: "missing"}}
	}

	return []dto.SchemaErrorItem{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}}
}

func fieldErrorItem(fe validator.FieldError) dto.SchemaErrorItem {
	loc := []string{"body", fe.Field()}
	switch fe.Tag() {
	case "required":
		return dto.SchemaErrorItem{Loc: loc, Msg: "Field required", Type: "missing"}
	case "gte":
		return dto.SchemaErrorItem{Loc: loc, Msg: "Input should be greater than or equal to " + fe.Param(), Type: "greater_than_equal"}
	case "lte":
		return dto.SchemaErrorItem{Loc: loc, Msg: "Input should be less than or equal to " + fe.Param(), Type: "less_than_equal"}
	default:
		return dto.SchemaErrorItem{Loc: loc, Msg: fe.Error(), Type: fe.Tag()}
	}
}
