package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

var (
	once sync.Once

	standalone     *validator.Validate
	standaloneOnce sync.Once
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags and domain validators.
func Init() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Register(v)
		}
	})
}

// Register installs the tag name func, aliases and custom tags on v.
func Register(v *validator.Validate) {
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
	v.RegisterAlias("pwd", "min=8")
	v.RegisterAlias("uuid4", "uuid")
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(f.String()) != ""
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entity.Role(fl.Field().String()).Valid()
	})
	// signup_role excludes ADMIN, which is only created by the seed command.
	_ = v.RegisterValidation("signup_role", func(fl validator.FieldLevel) bool {
		r := entity.Role(fl.Field().String())
		return r == entity.RoleVolunteer || r == entity.RoleEventManager
	})
}

// Var checks a single value against tag using a validator configured like
// Gin's, for callers that do not bind a request struct.
func Var(value any, tag string) error {
	standaloneOnce.Do(func() {
		standalone = validator.New(validator.WithRequiredStructEnabled())
		Register(standalone)
	})
	return standalone.Var(value, tag)
}

// Email reports whether s is a well-formed email address.
func Email(s string) bool {
	return Var(s, "required,email") == nil
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// Summary renders details as a single reason line.
func Summary(details map[string]string) string {
	if len(details) == 0 {
		return "invalid payload"
	}
	if len(details) == 1 {
		for f, m := range details {
			return f + " " + m
		}
	}
	return "invalid payload"
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email"
	case "url", "uri":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "role":
		return "must be one of VOLUNTEER EVENT_MANAGER ADMIN"
	case "signup_role":
		return "must be VOLUNTEER or EVENT_MANAGER"
	case "pwd":
		return "min length 8"
	case "oneof":
		return "must be one of " + param
	case "len":
		if kind == reflect.String {
			return "must be exactly " + param + " characters"
		}
		return "must have exactly " + param + " items"
	case "min":
		if kind == reflect.String {
			return "must be at least " + param + " characters"
		}
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		return "must have at least " + param + " items"
	case "max":
		if kind == reflect.String {
			return "must be at most " + param + " characters"
		}
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must have at most " + param + " items"
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("must satisfy %s %s", tag, param)
	case "gtfield", "gtefield":
		return "must be after " + param
	case "datetime":
		return "must match layout " + param
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
