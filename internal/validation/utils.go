package validation

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/errs"
)

// Validatable is implemented by request payloads that know how to validate
// themselves, usually by calling Struct on their own value.
type Validatable interface {
	Validate() error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so error locations match what clients sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s against its struct tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate decodes the request body into payload and validates it.
// A body sent without a Content-Type header is read as JSON. Decoding and
// validation problems come back as a 422 *errs.HTTPError; any other
// unsupported content type keeps Echo's 415.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := bindBody(c, payload); err != nil {
		return bindError(err)
	}
	if err := payload.Validate(); err != nil {
		return validationError(err)
	}
	return nil
}

// ParamInt64 parses the named path parameter as an integer.
func ParamInt64(c echo.Context, name string) (int64, error) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, errs.NewValidationError(errs.WrongType("integer", "path", name)).WithCause(err)
	}
	return n, nil
}

func bindBody(c echo.Context, payload any) error {
	req := c.Request()
	if req.Header.Get(echo.HeaderContentType) != "" || req.ContentLength == 0 || req.Body == nil {
		return c.Bind(payload)
	}
	return json.NewDecoder(req.Body).Decode(payload)
}

func bindError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
		return err
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		if ute.Field == "" {
			return errs.NewValidationError(errs.WrongType("dict", "body")).WithCause(err)
		}
		loc := append([]string{"body"}, strings.Split(ute.Field, ".")...)
		return errs.NewValidationError(errs.WrongType(typeName(ute.Type), loc...)).WithCause(err)
	}

	var se *json.SyntaxError
	if errors.As(err, &se) {
		return errs.NewValidationError(errs.InvalidJSON(se.Error())).WithCause(err)
	}
	return errs.NewValidationError(errs.InvalidJSON("invalid request body")).WithCause(err)
}

func validationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return errs.NewInternalServerError(err)
	}
	fields := make([]errs.FieldError, 0, len(ves))
	for _, fe := range ves {
		loc := []string{"body", fe.Field()}
		switch fe.Tag() {
		case "required":
			fields = append(fields, errs.Missing(loc...))
		default:
			fields = append(fields, errs.FieldError{
				Loc:  loc,
				Msg:  "failed on " + fe.Tag(),
				Type: "value_error." + fe.Tag(),
			})
		}
	}
	return errs.NewValidationError(fields...).WithCause(err)
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "str"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Bool:
		return "bool"
	case reflect.Struct, reflect.Map:
		return "dict"
	default:
		return t.Kind().String()
	}
}
