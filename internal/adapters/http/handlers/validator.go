// Package handlers contains the HTTP handlers. A handler binds the request,
// builds a command or query DTO, calls the use case and renders the envelope.
package handlers

import (
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/playforge/gamewallet/internal/adapters/http/common"
)

var setupOnce sync.Once

// SetupValidator registers the custom gin binding validators. Safe to call
// more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			// Report field names from json tags in binding errors.
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})

			_ = v.RegisterValidation("asset_code", validateAssetCode)
			_ = v.RegisterValidation("money_amount", validateMoneyAmount)
		}
	})
}

// validateAssetCode accepts short uppercase symbols (case-insensitive input
// is normalized downstream).
var assetCodePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{1,15}$`)

func validateAssetCode(fl validator.FieldLevel) bool {
	return assetCodePattern.MatchString(fl.Field().String())
}

// validateMoneyAmount accepts decimal strings with up to 8 fraction digits.
var moneyPattern = regexp.MustCompile(`^\d+(\.\d{1,8})?$`)

func validateMoneyAmount(fl validator.FieldLevel) bool {
	return moneyPattern.MatchString(fl.Field().String())
}

// BindJSON binds the request body, writing a 400 envelope on failure.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// BindQuery binds query parameters, writing a 400 envelope on failure.
func BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return false
	}
	return true
}
