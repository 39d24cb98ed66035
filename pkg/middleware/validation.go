package middleware

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wms-platform/ops-simulator/pkg/errors"
)

var (
	validatorOnce sync.Once
	enumMu        sync.RWMutex
	enumValues    = map[string]map[string]bool{}
)

// InitValidator configures gin's validator engine to report JSON field names
// in errors.
func InitValidator() {
	validatorOnce.Do(func() {
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
	})
}

// RegisterEnum registers a validation tag that accepts exactly the given
// values, e.g. RegisterEnum("incident_type", "surge", "error_spike").
// Registering the same tag again replaces its value set.
func RegisterEnum(tag string, values ...string) error {
	InitValidator()

	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}

	enumMu.Lock()
	_, existed := enumValues[tag]
	enumValues[tag] = set
	enumMu.Unlock()

	if existed {
		return nil
	}

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		enumMu.RLock()
		defer enumMu.RUnlock()
		return enumValues[tag][fl.Field().String()]
	})
}

func enumList(tag string) string {
	enumMu.RLock()
	defer enumMu.RUnlock()

	values := make([]string, 0, len(enumValues[tag]))
	for v := range enumValues[tag] {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}

// ValidationErrorFormatter formats validation errors into a field -> message map
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fields[e.Field()] = formatValidationError(e)
		}
	}

	return fields
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	}

	if list := enumList(e.Tag()); list != "" {
		return "must be one of: " + list
	}
	return "is invalid"
}

// BindAndValidate binds the JSON body into obj and validates it
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return errors.ErrValidationWithFields("validation failed", ValidationErrorFormatter(validationErrors))
		}
		return errors.ErrBadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// ContentType rejects non-JSON bodies on POST, PUT and PATCH
func ContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "POST", "PUT", "PATCH":
			contentType := c.GetHeader("Content-Type")
			if c.Request.ContentLength > 0 && !strings.HasPrefix(contentType, "application/json") {
				AbortWithAppError(c, &errors.AppError{
					Code:       "INVALID_CONTENT_TYPE",
					Message:    "Content-Type must be application/json",
					HTTPStatus: 415,
				})
				return
			}
		}
		c.Next()
	}
}
