package api

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	panTypes = map[string]bool{"ROUND": true, "RECTANGLE": true, "SQUARE": true, "CUSTOM": true}

	ingredientUnits = map[string]bool{
		"g": true, "kg": true, "ml": true, "cl": true, "l": true,
		"tsp": true, "tbsp": true, "cas": true, "cc": true, "cup": true, "unit": true,
	}

	volumeUnits = map[string]bool{"cm3": true, "l": true}

	registerOnce sync.Once
)

// RegisterValidators installs the custom binding rules and makes validation
// errors report JSON field names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("pan_type", func(fl validator.FieldLevel) bool {
			return panTypes[strings.ToUpper(fl.Field().String())]
		})
		_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
			return ingredientUnits[strings.ToLower(fl.Field().String())]
		})
		_ = v.RegisterValidation("volume_unit", func(fl validator.FieldLevel) bool {
			return volumeUnits[strings.ToLower(fl.Field().String())]
		})
	})
}
