package utils

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/kanban-api/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// Validator returns the shared validator with the custom tags registered.
// When gin's default engine is a go-playground validator the tags are
// registered there too, so `binding:"priority"` works on request structs.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		registerCustom(validate)

		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustom(engine)
		}
	})
	return validate
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("priority", validatePriority)
	_ = v.RegisterValidation("handle", validateHandle)
}

func validatePriority(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.TaskPriority(value).Valid()
}

func validateHandle(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// ValidateStruct validates s and flattens the failures into one error.
func ValidateStruct(s interface{}) error {
	if err := Validator().Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "priority":
			messages = append(messages, fmt.Sprintf("%s must be one of low, medium, high", field))
		case "handle":
			messages = append(messages, fmt.Sprintf("%s may contain only letters, digits and @/./+/-/_", field))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", field, e.Tag()))
		}
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
