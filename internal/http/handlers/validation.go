package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mindcare/mindcare-be/internal/apperr"
)

const maxBodyBytes = 1 << 20

const msgMissingFields = "Please fill in all fields"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldMessages overrides the default message for a json field and validator tag.
// A "*" tag matches any tag for that field.
var fieldMessages = map[string]string{
	"email.email":  "Invalid email format",
	"password.min": "Password must be at least 6 characters long",
	"name.min":     "Title must be at least 6 characters long",
	"prompt.min":   "Content must be at least 6 characters long",
	"title.min":    "Title must be at least 3 characters long",
	"url.url":      "Invalid url",
	"mood.*":       "Mood must be between 1 and 10",
	"notes.max":    "Notes must be at most 1000 characters long",
	"username.min": "Username cannot be empty",
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Invalid JSON payload")
	}
	return nil
}

// validateStruct runs struct tags and converts the first failure into a client message.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Internal(err)
	}
	return apperr.Validation(messageFor(verrs[0]))
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := fieldMessages[fe.Field()+".*"]; ok {
		return msg
	}
	if fe.Tag() == "required" {
		return msgMissingFields
	}
	return fmt.Sprintf("Invalid %s", fe.Field())
}
