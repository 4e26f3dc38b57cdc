package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages line up with the payload.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("int32", int32Range)
	return v
}

// int32Range accepts numeric text whose value fits the store's INTEGER column.
func int32Range(fl validator.FieldLevel) bool {
	f, err := strconv.ParseFloat(fl.Field().String(), 64)
	return err == nil && f >= math.MinInt32 && f <= math.MaxInt32
}

// fieldMessages holds the user-facing message for each failing field. A
// "<field>.<tag>" key takes precedence over the plain field name.
var fieldMessages = map[string]string{
	"firstname":   "Le prénom est obligatoire",
	"lastname":    "Le nom de famille est obligatoire",
	"username":    "Le nom d'utilisateur est obligatoire",
	"password":    "Le mot de passe est obligatoire",
	"avatar":      "L'avatar est obligatoire",
	"age":         "L'âge doit être un nombre",
	"city":        "La ville est obligatoire",
	"title":       "Le titre est obligatoire",
	"url":         "L'url est obligatoire",
	"description": "La description est obligatoire",
}

// FieldError is one entry of the envelope's errors list.
type FieldError struct {
	Location string `json:"location"`
	Param    string `json:"param"`
	Msg      string `json:"msg"`
	Value    any    `json:"value,omitempty"`
}

// numberText accepts a JSON number or a numeric string and keeps its text,
// so that "age": "25" and "age": 25 are both accepted and "age": "old"
// fails validation rather than decoding.
type numberText string

func (n *numberText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = numberText(strings.TrimSpace(s))
	default:
		*n = numberText(data)
	}
	return nil
}

// Int truncates the number toward zero. Callers validate the range first.
func (n numberText) Int() int {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// decodeJSON reads the request body into dst. An empty body leaves dst at
// its zero value so that validation reports the missing fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// validationErrors runs the struct validator and turns its findings into
// envelope entries. It returns nil when v is valid.
func validationErrors(v any) []any {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []any{FieldError{Location: "body", Msg: err.Error()}}
	}

	out := make([]any, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg, ok = fieldMessages[fe.Field()]
		}
		if !ok {
			msg = "Invalid value"
		}
		item := FieldError{Location: "body", Param: fe.Field(), Msg: msg}
		if s, ok := fe.Value().(numberText); ok && s != "" {
			item.Value = string(s)
		}
		out = append(out, item)
	}
	return out
}
