package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pharmstock/backend/internal/domain/trade"
)

// SetupValidator configures gin's validator engine: error messages use JSON
// field names, and order status payloads are checked against the known set.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("orderstatus", validateOrderStatus)
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	status := trade.OrderStatus(fl.Field().String())
	switch status {
	case trade.OrderStatusPending, trade.OrderStatusCompleted, trade.OrderStatusCancelled:
		return true
	}
	return false
}
