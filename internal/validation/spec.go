package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dpshade/pocket-deck/internal/models"
)

// SpecResult is the outcome of validating a whole presentation
type SpecResult struct {
	ValidationResult
	Spec *models.PresentationSpec `json:"-"`
}

// ValidateSpec checks an untyped presentation and, when it is valid, decodes
// it into a PresentationSpec. The returned error is reserved for programming
// errors such as a slide kind without a schema; bad input is reported through
// the result's issues.
func (v *Validator) ValidateSpec(raw map[string]interface{}) (*SpecResult, error) {
	result := &SpecResult{ValidationResult: ValidationResult{Valid: true, Data: raw}}

	if raw == nil {
		result.add(Issue{Path: "", Code: "INVALID_TYPE", Expected: "object", Actual: "null", Message: "presentation must be an object"})
		result.Example = PresentationExample()
		return result, nil
	}

	presentation := v.schemas[SchemaPresentation]
	issues, warnings := v.checkObject("", presentation, raw)
	result.add(issues...)
	result.Warnings = append(result.Warnings, warnings...)

	if themeID, ok := raw["theme"].(string); ok && themeID != "" && v.themes != nil && !v.themes.Has(themeID) {
		ids := v.themes.IDs()
		msg := fmt.Sprintf("unknown theme '%s'", themeID)
		if s := Suggest(themeID, ids); s != "" {
			msg += fmt.Sprintf(" (did you mean '%s'?)", s)
		}
		result.add(Issue{Path: "theme", Code: "UNKNOWN_THEME", Expected: "one of: " + strings.Join(ids, ", "), Actual: quote(themeID), Message: msg})
	}

	if len(result.Issues) > 0 {
		result.Example = PresentationExample()
	}

	slides, _ := raw["slides"].([]interface{})
	for i, item := range slides {
		path := index("slides", i)
		slideRaw, ok := item.(map[string]interface{})
		if !ok {
			result.add(Issue{Path: path, Code: "INVALID_TYPE", Expected: "object", Actual: typeName(item), Message: "each slide must be an object"})
			continue
		}
		slideIssues, slideWarnings, example, err := v.validateSlide(path, slideRaw)
		if err != nil {
			return nil, err
		}
		if len(slideIssues) > 0 && result.Example == nil {
			result.Example = example
		}
		result.add(slideIssues...)
		result.Warnings = append(result.Warnings, slideWarnings...)
	}

	if !result.Valid {
		return result, nil
	}

	spec, err := decodeSpec(raw, slides)
	if err != nil {
		result.add(Issue{Path: "", Code: "DECODE_FAILED", Expected: "presentation matching the schema", Actual: "undecodable input", Message: err.Error()})
		return result, nil
	}
	result.Spec = spec
	return result, nil
}

// validateSlide checks one slide against the schema for its kind
func (v *Validator) validateSlide(path string, raw map[string]interface{}) (Issues, Issues, map[string]interface{}, error) {
	kinds := slideKindNames()

	kindValue, exists := raw["type"]
	kind, isString := kindValue.(string)
	if !exists || kindValue == nil || (isString && strings.TrimSpace(kind) == "") {
		return Issues{{
			Path:     join(path, "type"),
			Code:     "REQUIRED_FIELD_MISSING",
			Expected: "slide type (one of: " + strings.Join(kinds, ", ") + ")",
			Actual:   describeValue(kindValue, exists),
			Message:  "slide type is required",
		}}, nil, Example(models.KindContent), nil
	}
	if !isString {
		return Issues{{Path: join(path, "type"), Code: "INVALID_TYPE", Expected: "string", Actual: typeName(kindValue), Message: "slide type must be a string"}},
			nil, Example(models.KindContent), nil
	}

	if !models.SlideKind(kind).Valid() {
		msg := fmt.Sprintf("unknown slide type '%s'", kind)
		example := Example(models.KindContent)
		if s := Suggest(kind, kinds); s != "" {
			msg += fmt.Sprintf(" (did you mean '%s'?)", s)
			example = Example(models.SlideKind(s))
		}
		return Issues{{
			Path:     join(path, "type"),
			Code:     "UNKNOWN_SLIDE_TYPE",
			Expected: "one of: " + strings.Join(kinds, ", "),
			Actual:   quote(kind),
			Message:  msg,
		}}, nil, example, nil
	}

	schema, ok := v.schemas[kind]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrSchemaNotRegistered, kind)
	}

	issues, warnings := v.checkObject(path, schema, raw)
	return issues, warnings, Example(models.SlideKind(kind)), nil
}

// ValidateOptions checks a call-level options object and decodes it
func (v *Validator) ValidateOptions(raw map[string]interface{}) (*models.GenerationOptions, *ValidationResult) {
	result := v.Validate(SchemaOptions, raw)
	if themeID, ok := raw["theme"].(string); ok && themeID != "" && v.themes != nil && !v.themes.Has(themeID) {
		result.add(Issue{Path: "theme", Code: "UNKNOWN_THEME", Expected: "one of: " + strings.Join(v.themes.IDs(), ", "), Actual: quote(themeID),
			Message: fmt.Sprintf("unknown theme '%s'", themeID)})
	}
	if !result.Valid {
		return nil, result
	}

	var opts models.GenerationOptions
	if err := remarshal(raw, &opts); err != nil {
		result.add(Issue{Path: "", Code: "DECODE_FAILED", Expected: "options object", Actual: "undecodable input", Message: err.Error()})
		return nil, result
	}
	return &opts, result
}

func decodeSpec(raw map[string]interface{}, slides []interface{}) (*models.PresentationSpec, error) {
	spec := &models.PresentationSpec{}
	spec.Title, _ = raw["title"].(string)
	spec.Theme, _ = raw["theme"].(string)

	if opts, ok := raw["options"].(map[string]interface{}); ok {
		spec.Options = &models.GenerationOptions{}
		if err := remarshal(opts, spec.Options); err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
	}
	if meta, ok := raw["metadata"].(map[string]interface{}); ok {
		spec.Metadata = &models.Metadata{}
		if err := remarshal(meta, spec.Metadata); err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
	}

	spec.Slides = make([]*models.Slide, 0, len(slides))
	for i, item := range slides {
		slide, err := models.DecodeSlide(item.(map[string]interface{}))
		if err != nil {
			return nil, fmt.Errorf("slides[%d]: %w", i, err)
		}
		spec.Slides = append(spec.Slides, slide)
	}
	return spec, nil
}

func remarshal(in interface{}, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func slideKindNames() []string {
	kinds := models.SlideKinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
