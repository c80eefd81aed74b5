package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// categories[0] -> categories.0
	indexPattern = regexp.MustCompile(`\[(\d+)\]`)
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// ใช้ชื่อจาก json tag ให้ตรงกับ field ที่ client ส่งมา
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct ตรวจ struct ตาม validate tag
func ValidateStruct(s any) error {
	return getValidator().Struct(s)
}

// GetValidationErrors แปลง error ของ validator เป็น map field -> ข้อความ
func GetValidationErrors(err error) map[string]string {
	result := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		result["_"] = err.Error()
		return result
	}

	for _, fe := range validationErrors {
		field := fieldPath(fe.Namespace())
		if _, exists := result[field]; exists {
			continue
		}
		result[field] = messageFor(field, fe)
	}
	return result
}

// fieldPath ตัดชื่อ struct ด้านหน้าออก
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		namespace = namespace[idx+1:]
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func messageFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "len":
		return fmt.Sprintf("The %s field must be %s characters.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "gt":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "hexcolor":
		return fmt.Sprintf("The %s field must be a valid hex color.", field)
	case "datetime":
		return fmt.Sprintf("The %s field must be a valid date.", field)
	case "alphanum":
		return fmt.Sprintf("The %s field must only contain letters and numbers.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
