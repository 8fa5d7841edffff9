package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var timeType = reflect.TypeOf(time.Time{})

// BindJSON decodes the request body into dst and validates it. Decoding
// failures come back as a *ValidationError so handlers render one 400 shape.
func (v *Validator) BindJSON(c *gin.Context, dst any) error {
	var body []byte
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return Single("body", "Request body could not be read.")
		}
		body = raw
	}

	if err := binding.JSON.BindBody(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var parseErr *time.ParseError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return Single(typeErr.Field, fmt.Sprintf("'%s' has an invalid type.", typeErr.Field))
		case errors.As(err, &parseErr):
			field := invalidTimestampField(dst, body)
			return Single(field, fmt.Sprintf("'%s' must be a valid timestamp.", field))
		case errors.Is(err, io.EOF):
			return Single("body", "Request body is required.")
		default:
			return Single("body", "Request body is not valid JSON.")
		}
	}
	return v.Struct(dst)
}

// invalidTimestampField finds the first top-level time field of dst whose
// value in body does not parse. It falls back to "body".
func invalidTimestampField(dst any, body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "body"
	}
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "body"
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft != timeType {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = f.Name
		}
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var ts time.Time
		if err := json.Unmarshal(raw, &ts); err != nil {
			return name
		}
	}
	return "body"
}
