package http

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// JSON tag names in field errors, so clients see what they sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// checkStruct validates v and reports failures as a *blueprint.ValidationError.
func checkStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	flds := make([]blueprint.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		flds = append(flds, blueprint.FieldError{
			Field: fieldPath(fe.Namespace()),
			Error: fe.Translate(translator),
		})
	}
	return blueprint.NewValidationError(errors.New("invalid request"), flds...)
}

// fieldPath drops the Go type name validator puts in front of the namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// bind decodes the JSON body into dst and validates it.
func bind(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return blueprint.NewValidationError(errors.Wrap(err, "bad json"))
	}
	return checkStruct(dst)
}
