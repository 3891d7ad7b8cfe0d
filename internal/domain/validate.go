package domain

import (
	"slices"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// rule builds the validator tag for a field. Select membership is
// checked separately against the schema options.
func (f Field) rule() string {
	switch {
	case f.Required:
		return "required"
	case f.Kind == Date:
		return "omitempty,datetime=2006-01-02"
	case f.Kind == URL:
		return "omitempty,url"
	}
	return ""
}

func message(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	}
	return "is invalid"
}

// ValidateRecord checks a submitted record against the dataset schema
// and returns a field name to message map. An empty map means the
// record is acceptable.
func (d Dataset) ValidateRecord(rec map[string]string) map[string]string {
	data := make(map[string]interface{})
	rules := make(map[string]interface{})
	for _, f := range d.Schema() {
		if r := f.rule(); r != "" {
			data[f.Name] = rec[f.Name]
			rules[f.Name] = r
		}
	}

	problems := make(map[string]string)
	for name, err := range validate.ValidateMap(data, rules) {
		tag := ""
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			tag = verrs[0].Tag()
		}
		problems[name] = message(tag)
	}

	for _, f := range d.Schema() {
		if f.Kind != Select {
			continue
		}
		if v := rec[f.Name]; v != "" && !slices.Contains(f.Options, v) {
			problems[f.Name] = "is not one of the allowed choices"
		}
	}
	return problems
}
