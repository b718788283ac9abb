package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rentals/pkg/logger"
	"rentals/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fields flattens the errors into a details map keyed by field name.
func (v ValidationErrors) Fields() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// ReserveRequest is the input of a reserve call.
type ReserveRequest struct {
	Category model.Category `json:"category" validate:"required,category"`
	Start    time.Time      `json:"start" validate:"required"`
	Days     int            `json:"days" validate:"gt=0"`
}

type ReservationValidator struct {
	validate *validator.Validate
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	if err := v.RegisterValidation("category", validateCategory); err != nil {
		log.Fatal("Failed to register 'category' validator",
			"error", err,
		)
	}

	log.Debug("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
	}
}

func validateCategory(fl validator.FieldLevel) bool {
	return model.Category(fl.Field().String()).Valid()
}

func (v *ReservationValidator) ValidateReserve(req ReserveRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateCategory checks a single category outside of a reserve request.
func (v *ReservationValidator) ValidateCategory(category model.Category) error {
	switch {
	case category == "":
		return ValidationErrors{{Field: "Category", Message: "Category is required"}}
	case !category.Valid():
		return ValidationErrors{{Field: "Category", Message: fmt.Sprintf("Category must be one of: %s", categoryList())}}
	}
	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "category":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), categoryList())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

func categoryList() string {
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, " ")
}
