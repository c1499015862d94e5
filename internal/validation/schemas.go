package validation

import (
	"fmt"
	"regexp"
	"time"

	"golang.org/x/text/language"

	"github.com/dpshade/pocket-deck/internal/models"
)

// Schema names for the non-slide parts of a presentation
const (
	SchemaPresentation = "presentation"
	SchemaOptions      = "options"
	SchemaMetadata     = "metadata"
)

var (
	idPattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	themePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// commonSlideFields are accepted on every slide kind
func commonSlideFields() map[string]FieldValidator {
	return map[string]FieldValidator{
		"type":       {Name: "type", Required: true, Type: TypeString},
		"id":         {Name: "id", Type: TypeString, MaxLength: 64, Pattern: idPattern},
		"notes":      {Name: "notes", Type: TypeString, MaxLength: 10000},
		"background": {Name: "background", Type: TypeColor},
		"reveal":     {Name: "reveal", Type: TypeBool},
	}
}

// slideSchema merges kind-specific fields with the common slide fields
func slideSchema(kind models.SlideKind, fields map[string]FieldValidator, rules ...func(map[string]interface{}) error) *Schema {
	all := commonSlideFields()
	for name, fv := range fields {
		all[name] = fv
	}
	return &Schema{Name: string(kind), Fields: all, Rules: rules, WarnUnknown: true}
}

func title(required bool) FieldValidator {
	fv := FieldValidator{Name: "title", Type: TypeString, MaxLength: 300}
	if required {
		fv.Required = true
		fv.MinLength = 1
	}
	return fv
}

func text(name string, required bool) FieldValidator {
	fv := FieldValidator{Name: name, Type: TypeString, MaxLength: 5000}
	if required {
		fv.Required = true
		fv.MinLength = 1
	}
	return fv
}

func object(name string, required bool, fields map[string]FieldValidator) FieldValidator {
	return FieldValidator{Name: name, Required: required, Type: TypeObject, Object: &Schema{Name: name, Fields: fields}}
}

func list(name, label string, minItems int, item map[string]FieldValidator) FieldValidator {
	return FieldValidator{Name: name, Required: minItems > 0, Type: TypeArray, Label: label, MinItems: minItems, Items: &Schema{Name: label, Fields: item}}
}

func chartKindNames() []string {
	kinds := models.ChartKinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// chartBlock validates the chart reference. Only the shape of the reference is
// checked here; the data itself is parsed by the chart engine so that a bad
// dataset only affects its own slide.
func chartBlock(required bool) FieldValidator {
	return object("chart", required, map[string]FieldValidator{
		"type": {Name: "type", Required: true, Type: TypeString, Options: chartKindNames()},
		"data": {Name: "data", Required: true, Type: TypeObject},
		"options": object("options", false, map[string]FieldValidator{
			"showLegend": {Name: "showLegend", Type: TypeBool},
			"showGrid":   {Name: "showGrid", Type: TypeBool},
			"showValues": {Name: "showValues", Type: TypeBool},
			"innerRadius": {Name: "innerRadius", Type: TypeNumber, Custom: func(v interface{}) error {
				if f, _ := toFloat(v); f <= 0 || f >= 1 {
					return &RuleError{Code: "OUT_OF_RANGE", Expected: "number between 0 and 1 (exclusive)", Message: "innerRadius must be between 0 and 1"}
				}
				return nil
			}},
			"xLabel": {Name: "xLabel", Type: TypeString, MaxLength: 100},
			"yLabel": {Name: "yLabel", Type: TypeString, MaxLength: 100},
		}),
	})
}

func callToAction() FieldValidator {
	return object("cta", false, map[string]FieldValidator{
		"label": text("label", true),
		"url":   {Name: "url", Required: true, Type: TypeURL},
	})
}

// requireOneOf fails unless at least one of the fields has a non-empty value
func requireOneOf(fields ...string) func(map[string]interface{}) error {
	return func(data map[string]interface{}) error {
		for _, f := range fields {
			if present(data[f]) {
				return nil
			}
		}
		return &RuleError{
			Field:    fields[0],
			Code:     "REQUIRED_FIELD_MISSING",
			Expected: fmt.Sprintf("%s or %s", fields[0], fields[1]),
			Actual:   "neither",
			Message:  fmt.Sprintf("slide needs either '%s' or '%s'", fields[0], fields[1]),
		}
	}
}

// exactlyOneOf fails unless exactly one of a and b is set
func exactlyOneOf(a, b string) func(map[string]interface{}) error {
	return func(data map[string]interface{}) error {
		hasA, hasB := present(data[a]), present(data[b])
		switch {
		case hasA && hasB:
			return &RuleError{Field: b, Code: "MUTUALLY_EXCLUSIVE", Expected: fmt.Sprintf("either %s or %s", a, b), Actual: "both",
				Message: fmt.Sprintf("slide has both '%s' and '%s'; use one", a, b)}
		case !hasA && !hasB:
			return &RuleError{Field: a, Code: "REQUIRED_FIELD_MISSING", Expected: fmt.Sprintf("%s or %s", a, b), Actual: "neither",
				Message: fmt.Sprintf("slide needs either '%s' or '%s'", a, b)}
		}
		return nil
	}
}

func present(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	}
	return true
}

func columnsSchema(kind models.SlideKind) *Schema {
	n := kind.ColumnCount()
	return slideSchema(kind, map[string]FieldValidator{
		"title": title(false),
		"columns": {
			Name: "columns", Required: true, Type: TypeArray, Label: "column",
			MinItems: n, MaxItems: n,
			Items: &Schema{Name: "column", Fields: map[string]FieldValidator{
				"title":   {Name: "title", Type: TypeString, MaxLength: 200},
				"content": text("content", false),
			}},
		},
	})
}

// registerBuiltinSchemas registers schemas for every slide kind and the
// presentation envelope
func (v *Validator) registerBuiltinSchemas() {
	v.RegisterSchema(&Schema{
		Name: SchemaOptions,
		Fields: map[string]FieldValidator{
			"aspectRatio":  {Name: "aspectRatio", Type: TypeString, Options: []string{string(models.Aspect16x9), string(models.Aspect4x3)}},
			"fontSize":     {Name: "fontSize", Type: TypeString, Options: []string{string(models.FontSmall), string(models.FontMedium), string(models.FontLarge)}},
			"minify":       {Name: "minify", Type: TypeBool},
			"embedStyles":  {Name: "embedStyles", Type: TypeBool},
			"theme":        {Name: "theme", Type: TypeString, Pattern: themePattern},
			"slideNumbers": {Name: "slideNumbers", Type: TypeBool},
		},
		WarnUnknown: true,
	})

	v.RegisterSchema(&Schema{
		Name: SchemaMetadata,
		Fields: map[string]FieldValidator{
			"author":      {Name: "author", Type: TypeString, MaxLength: 200},
			"description": {Name: "description", Type: TypeString, MaxLength: 2000},
			"tags":        {Name: "tags", Type: TypeStringArray, MaxItems: 50, Label: "tag"},
			"createdAt": {Name: "createdAt", Type: TypeString, Custom: func(v interface{}) error {
				if _, err := time.Parse(time.RFC3339, v.(string)); err != nil {
					return &RuleError{Code: "INVALID_FORMAT", Expected: "RFC 3339 timestamp", Message: "createdAt must be an RFC 3339 timestamp such as 2024-01-31T09:00:00Z"}
				}
				return nil
			}},
			"language": {Name: "language", Type: TypeString, Custom: func(v interface{}) error {
				if _, err := language.Parse(v.(string)); err != nil {
					return &RuleError{Code: "INVALID_FORMAT", Expected: "BCP 47 language tag", Message: fmt.Sprintf("'%s' is not a valid language tag", v)}
				}
				return nil
			}},
			"version": {Name: "version", Type: TypeString, MaxLength: 50},
		},
		WarnUnknown: true,
	})

	options, _ := v.Schema(SchemaOptions)
	metadata, _ := v.Schema(SchemaMetadata)
	v.RegisterSchema(&Schema{
		Name: SchemaPresentation,
		Fields: map[string]FieldValidator{
			"title":    title(true),
			"theme":    {Name: "theme", Type: TypeString, Pattern: themePattern},
			"slides":   {Name: "slides", Required: true, Type: TypeArray, Label: "slide", MinItems: 1},
			"options":  {Name: "options", Type: TypeObject, Object: options},
			"metadata": {Name: "metadata", Type: TypeObject, Object: metadata},
		},
		WarnUnknown: true,
	})

	v.RegisterSchema(slideSchema(models.KindTitle, map[string]FieldValidator{
		"title":    title(true),
		"subtitle": text("subtitle", false),
		"author":   {Name: "author", Type: TypeString, MaxLength: 200},
		"date":     {Name: "date", Type: TypeString, MaxLength: 100},
	}))

	v.RegisterSchema(slideSchema(models.KindContent, map[string]FieldValidator{
		"title":   title(true),
		"content": {Name: "content", Type: TypeString, MaxLength: 20000},
		"bullets": {Name: "bullets", Type: TypeStringArray, MaxItems: 20, Label: "bullet"},
	}, requireOneOf("content", "bullets")))

	v.RegisterSchema(slideSchema(models.KindMedia, map[string]FieldValidator{
		"title":     title(false),
		"src":       {Name: "src", Required: true, Type: TypeURL},
		"alt":       {Name: "alt", Type: TypeString, MaxLength: 500},
		"caption":   text("caption", false),
		"mediaType": {Name: "mediaType", Type: TypeString, Options: []string{"image", "video"}},
	}))

	v.RegisterSchema(slideSchema(models.KindData, map[string]FieldValidator{
		"title": title(false),
		"chart": chartBlock(false),
		"table": object("table", false, map[string]FieldValidator{
			"headers": {Name: "headers", Required: true, Type: TypeStringArray, MinItems: 1, Label: "header"},
			"rows": {Name: "rows", Required: true, Type: TypeArray, Label: "row", Custom: func(v interface{}) error {
				for i, row := range v.([]interface{}) {
					if _, ok := row.([]interface{}); !ok {
						return &RuleError{Code: "INVALID_TYPE", Expected: "array of cells", Actual: typeName(row), Message: fmt.Sprintf("row %d must be an array of cells", i)}
					}
				}
				return nil
			}},
		}),
	}, exactlyOneOf("chart", "table")))

	v.RegisterSchema(slideSchema(models.KindQuote, map[string]FieldValidator{
		"quote":  text("quote", true),
		"author": {Name: "author", Type: TypeString, MaxLength: 200},
		"source": {Name: "source", Type: TypeString, MaxLength: 300},
	}))

	v.RegisterSchema(slideSchema(models.KindTimeline, map[string]FieldValidator{
		"title": title(false),
		"events": list("events", "event", 1, map[string]FieldValidator{
			"date":        {Name: "date", Required: true, Type: TypeString, MinLength: 1, MaxLength: 100},
			"title":       title(true),
			"description": text("description", false),
		}),
	}))

	side := func(name string) FieldValidator {
		return object(name, true, map[string]FieldValidator{
			"title": {Name: "title", Type: TypeString, MaxLength: 200},
			"items": {Name: "items", Type: TypeStringArray, Label: "item"},
		})
	}
	v.RegisterSchema(slideSchema(models.KindComparison, map[string]FieldValidator{
		"title": title(false),
		"left":  side("left"),
		"right": side("right"),
	}))

	v.RegisterSchema(slideSchema(models.KindProcess, map[string]FieldValidator{
		"title": title(false),
		"steps": list("steps", "step", 1, map[string]FieldValidator{
			"title":       title(true),
			"description": text("description", false),
		}),
	}))

	v.RegisterSchema(slideSchema(models.KindSectionHeader, map[string]FieldValidator{
		"title":    title(true),
		"subtitle": text("subtitle", false),
		"number":   {Name: "number", Type: TypeScalar},
	}))

	v.RegisterSchema(slideSchema(models.KindBlank, nil))

	v.RegisterSchema(slideSchema(models.KindHero, map[string]FieldValidator{
		"title":    title(true),
		"subtitle": text("subtitle", false),
		"image":    {Name: "image", Type: TypeURL},
		"cta":      callToAction(),
	}))

	v.RegisterSchema(columnsSchema(models.KindTwoColumn))
	v.RegisterSchema(columnsSchema(models.KindThreeColumn))
	v.RegisterSchema(columnsSchema(models.KindFourColumn))

	v.RegisterSchema(slideSchema(models.KindChartWithMetrics, map[string]FieldValidator{
		"title": title(false),
		"chart": chartBlock(true),
		"metrics": {Name: "metrics", Type: TypeArray, Label: "metric", MaxItems: 6, Items: &Schema{Name: "metric", Fields: map[string]FieldValidator{
			"label":  {Name: "label", Required: true, Type: TypeString, MinLength: 1, MaxLength: 100},
			"value":  {Name: "value", Required: true, Type: TypeScalar},
			"change": {Name: "change", Type: TypeScalar},
			"trend":  {Name: "trend", Type: TypeString, Options: []string{"up", "down", "flat"}},
		}}},
	}))

	v.RegisterSchema(slideSchema(models.KindProductOverview, map[string]FieldValidator{
		"title":       title(true),
		"description": text("description", false),
		"image":       {Name: "image", Type: TypeURL},
		"features":    {Name: "features", Type: TypeStringArray, MaxItems: 12, Label: "feature"},
		"price":       {Name: "price", Type: TypeScalar},
	}))

	v.RegisterSchema(slideSchema(models.KindGrid, map[string]FieldValidator{
		"title": title(false),
		"columns": {Name: "columns", Type: TypeInt, Custom: func(v interface{}) error {
			if n, _ := toFloat(v); n < 1 || n > 6 {
				return &RuleError{Code: "OUT_OF_RANGE", Expected: "integer from 1 to 6", Message: "columns must be between 1 and 6"}
			}
			return nil
		}},
		"items": list("items", "item", 1, map[string]FieldValidator{
			"title":       title(true),
			"description": text("description", false),
			"image":       {Name: "image", Type: TypeURL},
		}),
	}))

	v.RegisterSchema(slideSchema(models.KindFeatureCards, map[string]FieldValidator{
		"title": title(false),
		"cards": list("cards", "card", 1, map[string]FieldValidator{
			"icon":        {Name: "icon", Type: TypeString, MaxLength: 16},
			"title":       title(true),
			"description": text("description", false),
		}),
	}))

	v.RegisterSchema(slideSchema(models.KindTeam, map[string]FieldValidator{
		"title": title(false),
		"members": list("members", "member", 1, map[string]FieldValidator{
			"name":  {Name: "name", Required: true, Type: TypeString, MinLength: 1, MaxLength: 200},
			"role":  {Name: "role", Type: TypeString, MaxLength: 200},
			"photo": {Name: "photo", Type: TypeURL},
			"bio":   text("bio", false),
		}),
	}))

	v.RegisterSchema(slideSchema(models.KindPricing, map[string]FieldValidator{
		"title": title(false),
		"tiers": list("tiers", "tier", 1, map[string]FieldValidator{
			"name":        {Name: "name", Required: true, Type: TypeString, MinLength: 1, MaxLength: 100},
			"price":       {Name: "price", Required: true, Type: TypeScalar},
			"period":      {Name: "period", Type: TypeString, MaxLength: 50},
			"features":    {Name: "features", Type: TypeStringArray, Label: "feature"},
			"highlighted": {Name: "highlighted", Type: TypeBool},
			"cta":         callToAction(),
		}),
	}))

	v.RegisterSchema(slideSchema(models.KindCode, map[string]FieldValidator{
		"title":       title(false),
		"code":        {Name: "code", Required: true, Type: TypeString, MinLength: 1, MaxLength: 20000},
		"language":    {Name: "language", Type: TypeString, MaxLength: 50},
		"lineNumbers": {Name: "lineNumbers", Type: TypeBool},
		"highlight":   {Name: "highlight", Type: TypeNumberArray, Label: "line"},
	}))
}
