// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/nftlisting/config"
	"github.com/shashiranjanraj/nftlisting/pkg/validate"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling file parts to temporary files.
const multipartMemory = 8 << 20

// ErrNoFile is returned by File when the named part is absent.
var ErrNoFile = errors.New("bind: no file in request")

// JSON decodes r.Body as JSON into dest and runs validation. An empty body
// leaves dest untouched.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	if r.Body == nil {
		r.Body = http.NoBody
	}
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return check(dest), nil
}

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// Form parses a multipart body (capped at MAX_UPLOAD_BYTES) and decodes its
// text fields into dest using `form` tags. Supported field kinds are string,
// float64, int and pointers to them; a pointer stays nil when the field is
// absent. Unparseable numbers are reported in errs alongside validation
// failures.
func Form(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxUploadBytes())

	if err = r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("upload too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}

	errs = decodeForm(r.MultipartForm.Value, dest)
	for k, v := range check(dest) {
		if _, seen := errs[k]; !seen {
			errs[k] = v
		}
	}
	return errs, nil
}

// File returns the named file part of an already-parsed multipart form.
func File(r *http.Request, name string) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[name]) == 0 {
		return nil, nil, ErrNoFile
	}
	fh := r.MultipartForm.File[name][0]
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("bind: open %s: %w", name, err)
	}
	return f, fh, nil
}

func check(dest interface{}) map[string]string {
	errs := validate.Struct(dest)
	if errs == nil {
		errs = map[string]string{}
	}
	return errs
}

func decodeForm(values map[string][]string, dest interface{}) map[string]string {
	errs := map[string]string{}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errs
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		key := field.Tag.Get("form")
		if key == "" || key == "-" || !field.IsExported() {
			continue
		}
		vals, ok := values[key]
		if !ok || len(vals) == 0 {
			continue
		}
		raw := strings.TrimSpace(vals[0])

		target := rv.Field(i)
		if target.Kind() == reflect.Ptr {
			if raw == "" {
				continue
			}
			target.Set(reflect.New(target.Type().Elem()))
			target = target.Elem()
		}

		if err := setScalar(target, raw); err != nil {
			errs[validate.FieldName(field)] = fmt.Sprintf("The %s field must be a number.", validate.FieldName(field))
		}
	}

	return errs
}

func setScalar(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Float32, reflect.Float64:
		if raw == "" {
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Int, reflect.Int32, reflect.Int64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	}
	return nil
}
