package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
)

// readFields reads a JSON object or form body as raw fields. Form values are
// carried as JSON strings so both encodings decode the same way.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	if httpx.IsFormRequest(r) {
		r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, errors.Join(httpx.ErrMalformedBody, err)
		}
		fields := make(map[string]json.RawMessage, len(r.PostForm))
		for key, values := range r.PostForm {
			if len(values) == 0 {
				continue
			}
			raw, err := json.Marshal(values[0])
			if err != nil {
				return nil, err
			}
			fields[key] = raw
		}
		return fields, nil
	}

	var fields map[string]json.RawMessage
	if err := httpx.DecodeJSON(w, r, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

// fieldReader pulls typed values out of raw fields, collecting one message
// per bad field.
type fieldReader struct {
	fields map[string]json.RawMessage
	errs   map[string]string
}

func newFieldReader(fields map[string]json.RawMessage) *fieldReader {
	return &fieldReader{fields: fields, errs: map[string]string{}}
}

func (f *fieldReader) fail(key, msg string) {
	if _, ok := f.errs[key]; !ok {
		f.errs[key] = msg
	}
}

// str returns the string at key. present is false when the key is absent.
// A JSON null yields (nil, true) when nullable and an error otherwise.
func (f *fieldReader) str(key string, nullable bool) (val *string, present bool) {
	raw, ok := f.fields[key]
	if !ok {
		return nil, false
	}
	if string(raw) == "null" {
		if !nullable {
			f.fail(key, "This field may not be null.")
		}
		return nil, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		f.fail(key, "Not a valid string.")
		return nil, true
	}
	return &s, true
}

// required returns the non-blank string at key.
func (f *fieldReader) required(key string) string {
	v, present := f.str(key, false)
	switch {
	case !present:
		f.fail(key, "This field is required.")
	case v == nil:
	case *v == "":
		f.fail(key, "This field may not be blank.")
	default:
		return *v
	}
	return ""
}

func (f *fieldReader) valid() bool { return len(f.errs) == 0 }
