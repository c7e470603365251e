// file: internal/server/validators.go
// version: 2.0.0
// guid: c3a1e5fb-f2d1-41eb-9cb6-c35bf11b971c

package server

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/message"

	"github.com/jdfalk/library-catalog/internal/i18n"
)

var registerValidatorsOnce sync.Once

// registerValidators makes gin's validator report json field names and adds
// the notblank rule.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// notBlank rejects strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validationMessages returns one localized message per failing field, in
// declaration order. Anything that is not a validation failure is reported as
// a malformed body.
func validationMessages(p *message.Printer, err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{p.Sprintf(i18n.MsgMalformedBody)}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(p, fe))
	}
	return msgs
}

func fieldMessage(p *message.Printer, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return p.Sprintf(i18n.MsgFieldRequired, fe.Field())
	case "max":
		return p.Sprintf(i18n.MsgFieldTooLong, fe.Field(), fe.Param())
	default:
		return p.Sprintf(i18n.MsgFieldInvalid, fe.Field())
	}
}
