// Package validation checks untyped presentation definitions before they reach the compiler.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the gate between user input (YAML/JSON files, HTTP bodies, Go maps) and
// the typed models consumed by the renderer. Nothing is rendered from input that has not
// passed through ValidateSpec.
//
// KEY RESPONSIBILITIES:
// - Define one schema per slide kind plus schemas for the presentation, options and metadata
// - Report every problem as an Issue carrying a path, the expected shape and the actual value
// - Suggest likely corrections for mistyped slide kinds, themes and field names
// - Decode valid input into models.PresentationSpec
//
// INTEGRATION POINTS:
// - internal/service/service.go: Validate and Generate call ValidateSpec first
// - internal/errors/errors.go: ValidationResult.ToAppError() builds SpecValidationError
// - internal/theme/registry.go: the registry satisfies ThemeChecker
// - internal/api/server.go: /api/v1/validate returns ValidationResult as JSON
//
// VALIDATION FLOW:
// 1. Input is decoded into map[string]interface{} by the interface layer
// 2. ValidateSpec checks the presentation fields, then every slide against its kind's schema
// 3. Issues are collected in a deterministic order (fields are visited sorted by name)
// 4. Valid input is decoded into typed models and returned on the result
//
// USAGE PATTERNS:
// - Register schemas: Use RegisterSchema() to add or replace a slide kind's schema
// - Validate data: Use ValidateSpec() for whole decks, Validate() for a single named schema
// - Handle results: Check ValidationResult.Valid, or convert with ToAppError()
package validation

import (
	stderrors "errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"

	"github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/theme"
)

// Field types understood by FieldValidator
const (
	TypeString      = "string"
	TypeURL         = "url"
	TypeColor       = "color"
	TypeNumber      = "number"
	TypeInt         = "int"
	TypeBool        = "bool"
	TypeScalar      = "scalar" // string or number
	TypeArray       = "array"
	TypeStringArray = "string-array"
	TypeNumberArray = "number-array"
	TypeObject      = "object"
)

// FieldValidator provides validation rules for individual fields
type FieldValidator struct {
	Name      string
	Required  bool
	Type      string
	MinLength int
	MaxLength int
	MinItems  int
	MaxItems  int
	Label     string // noun for array items in messages, e.g. "slide"
	Pattern   *regexp.Regexp
	Options   []string
	Items     *Schema // schema for object items of an array
	Object    *Schema // schema for an object value
	Custom    func(interface{}) error
}

// Schema represents a validation schema
type Schema struct {
	Name   string
	Fields map[string]FieldValidator
	Rules  []func(map[string]interface{}) error
	// WarnUnknown reports fields that are not in Fields as warnings
	WarnUnknown bool
}

// FieldNames returns the schema's field names sorted
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RuleError lets a schema rule point at a specific field
type RuleError struct {
	Field    string
	Code     string
	Expected string
	Actual   string
	Message  string
}

func (e *RuleError) Error() string {
	return e.Message
}

// Issue is one validation problem
type Issue struct {
	Path     string `json:"path"`
	Code     string `json:"code"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Message  string `json:"message"`
}

// String formats the issue for terminals and logs
func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("%s: %s (expected %s, got %s)", path, i.Message, i.Expected, i.Actual)
}

// Issues is an ordered list of problems
type Issues []Issue

// Lines renders each issue on its own line
func (is Issues) Lines() []string {
	lines := make([]string, len(is))
	for i, issue := range is {
		lines[i] = issue.String()
	}
	return lines
}

// Paths returns the path of every issue
func (is Issues) Paths() []string {
	paths := make([]string, len(is))
	for i, issue := range is {
		paths[i] = issue.Path
	}
	return paths
}

// ThemeChecker reports which theme ids exist
type ThemeChecker interface {
	Has(id string) bool
	IDs() []string
}

// ErrSchemaNotRegistered is returned when a known slide kind has no schema.
// It indicates a programming error, not bad input.
var ErrSchemaNotRegistered = stderrors.New("no validation schema registered for slide kind")

// Validator provides centralized validation functionality
type Validator struct {
	schemas map[string]*Schema
	themes  ThemeChecker
}

// NewValidator creates a validator with the built-in schemas. themes may be
// nil, in which case theme ids are not checked.
func NewValidator(themes ThemeChecker) *Validator {
	v := &Validator{
		schemas: make(map[string]*Schema),
		themes:  themes,
	}

	v.registerBuiltinSchemas()

	return v
}

// RegisterSchema registers a validation schema
func (v *Validator) RegisterSchema(schema *Schema) {
	v.schemas[schema.Name] = schema
}

// Schema returns a registered schema by name
func (v *Validator) Schema(name string) (*Schema, bool) {
	s, ok := v.schemas[name]
	return s, ok
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid    bool                   `json:"valid"`
	Issues   Issues                 `json:"issues,omitempty"`
	Warnings Issues                 `json:"warnings,omitempty"`
	Example  map[string]interface{} `json:"example,omitempty"`
	Data     map[string]interface{} `json:"-"`
}

func (r *ValidationResult) add(issues ...Issue) {
	if len(issues) > 0 {
		r.Valid = false
		r.Issues = append(r.Issues, issues...)
	}
}

// Validate validates data against a named schema
func (v *Validator) Validate(schemaName string, data map[string]interface{}) *ValidationResult {
	schema, exists := v.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Issues: Issues{{
				Path:     "",
				Code:     "SCHEMA_NOT_FOUND",
				Expected: "registered schema",
				Actual:   schemaName,
				Message:  fmt.Sprintf("Validation schema '%s' not found", schemaName),
			}},
		}
	}

	result := &ValidationResult{Valid: true, Data: data}
	issues, warnings := v.checkObject("", schema, data)
	result.add(issues...)
	result.Warnings = append(result.Warnings, warnings...)
	return result
}

func join(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// checkObject validates data against schema, returning issues and warnings
func (v *Validator) checkObject(path string, schema *Schema, data map[string]interface{}) (Issues, Issues) {
	var issues, warnings Issues

	for _, name := range schema.FieldNames() {
		value, exists := data[name]
		fieldIssues, fieldWarnings := v.checkField(join(path, name), schema.Fields[name], value, exists)
		issues = append(issues, fieldIssues...)
		warnings = append(warnings, fieldWarnings...)
	}

	if len(issues) == 0 {
		for _, rule := range schema.Rules {
			err := rule(data)
			if err == nil {
				continue
			}
			var ruleErr *RuleError
			if stderrors.As(err, &ruleErr) {
				issues = append(issues, Issue{
					Path:     join(path, ruleErr.Field),
					Code:     orDefault(ruleErr.Code, "SCHEMA_RULE_VIOLATION"),
					Expected: ruleErr.Expected,
					Actual:   ruleErr.Actual,
					Message:  ruleErr.Message,
				})
				continue
			}
			issues = append(issues, Issue{Path: path, Code: "SCHEMA_RULE_VIOLATION", Expected: "valid " + schema.Name, Actual: "invalid", Message: err.Error()})
		}
	}

	if schema.WarnUnknown {
		var unknown []string
		for name := range data {
			if _, ok := schema.Fields[name]; !ok {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		for _, name := range unknown {
			msg := fmt.Sprintf("unknown field '%s' is ignored", name)
			if s := Suggest(name, schema.FieldNames()); s != "" {
				msg += fmt.Sprintf(" (did you mean '%s'?)", s)
			}
			warnings = append(warnings, Issue{Path: join(path, name), Code: "UNKNOWN_FIELD", Expected: "known field", Actual: name, Message: msg})
		}
	}

	return issues, warnings
}

// checkField validates a single field
func (v *Validator) checkField(path string, fv FieldValidator, value interface{}, exists bool) (Issues, Issues) {
	if fv.Required && (!exists || value == nil || isBlank(value)) {
		return Issues{{
			Path:     path,
			Code:     "REQUIRED_FIELD_MISSING",
			Expected: describe(fv),
			Actual:   describeValue(value, exists),
			Message:  fmt.Sprintf("Field '%s' is required", lastSegment(path)),
		}}, nil
	}

	if !exists || value == nil {
		return nil, nil
	}

	var issues, warnings Issues
	invalidType := func(expected string) Issues {
		return Issues{{
			Path:     path,
			Code:     "INVALID_TYPE",
			Expected: expected,
			Actual:   typeName(value),
			Message:  fmt.Sprintf("Field '%s' must be %s", lastSegment(path), withArticle(expected)),
		}}
	}

	switch fv.Type {
	case TypeString, TypeURL, TypeColor:
		str, ok := value.(string)
		if !ok {
			return invalidType(describe(fv)), nil
		}
		issues = append(issues, checkString(path, fv, str)...)

	case TypeNumber:
		if _, ok := toFloat(value); !ok {
			return invalidType("number"), nil
		}

	case TypeInt:
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) {
			return invalidType("integer"), nil
		}

	case TypeBool:
		if _, ok := value.(bool); !ok {
			return invalidType("boolean"), nil
		}

	case TypeScalar:
		if _, ok := value.(string); !ok {
			if _, ok := toFloat(value); !ok {
				return invalidType("string or number"), nil
			}
		}

	case TypeArray, TypeStringArray, TypeNumberArray:
		items, ok := value.([]interface{})
		if !ok {
			return invalidType(describe(fv)), nil
		}
		if issue := checkItemCount(path, fv, len(items)); issue != nil {
			issues = append(issues, *issue)
		}
		for i, item := range items {
			itemPath := index(path, i)
			switch {
			case fv.Type == TypeStringArray:
				if _, ok := item.(string); !ok {
					issues = append(issues, Issue{Path: itemPath, Code: "INVALID_TYPE", Expected: "string", Actual: typeName(item), Message: "array items must be strings"})
				}
			case fv.Type == TypeNumberArray:
				if _, ok := toFloat(item); !ok {
					issues = append(issues, Issue{Path: itemPath, Code: "INVALID_TYPE", Expected: "number", Actual: typeName(item), Message: "array items must be numbers"})
				}
			case fv.Items != nil:
				obj, ok := item.(map[string]interface{})
				if !ok {
					issues = append(issues, Issue{Path: itemPath, Code: "INVALID_TYPE", Expected: "object", Actual: typeName(item), Message: fmt.Sprintf("each %s must be an object", orDefault(fv.Label, "item"))})
					continue
				}
				itemIssues, itemWarnings := v.checkObject(itemPath, fv.Items, obj)
				issues = append(issues, itemIssues...)
				warnings = append(warnings, itemWarnings...)
			}
		}

	case TypeObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return invalidType("object"), nil
		}
		if fv.Object != nil {
			objIssues, objWarnings := v.checkObject(path, fv.Object, obj)
			issues = append(issues, objIssues...)
			warnings = append(warnings, objWarnings...)
		}
	}

	if len(issues) == 0 && fv.Custom != nil {
		if err := fv.Custom(value); err != nil {
			issue := Issue{Path: path, Code: "CUSTOM_VALIDATION_FAILED", Expected: describe(fv), Actual: describeValue(value, true), Message: fmt.Sprintf("Field '%s': %s", lastSegment(path), err.Error())}
			var ruleErr *RuleError
			if stderrors.As(err, &ruleErr) {
				issue.Code = orDefault(ruleErr.Code, issue.Code)
				issue.Expected = orDefault(ruleErr.Expected, issue.Expected)
				issue.Actual = orDefault(ruleErr.Actual, issue.Actual)
				issue.Message = ruleErr.Message
			}
			issues = append(issues, issue)
		}
	}

	return issues, warnings
}

// checkString applies string, url and color rules
func checkString(path string, fv FieldValidator, str string) Issues {
	var issues Issues
	field := lastSegment(path)
	length := utf8.RuneCountInString(str)

	if fv.MinLength > 0 && length < fv.MinLength {
		issues = append(issues, Issue{Path: path, Code: "MIN_LENGTH_VIOLATION", Expected: fmt.Sprintf("at least %d characters", fv.MinLength), Actual: fmt.Sprintf("%d characters", length),
			Message: fmt.Sprintf("Field '%s' must be at least %d characters long", field, fv.MinLength)})
	}
	if fv.MaxLength > 0 && length > fv.MaxLength {
		issues = append(issues, Issue{Path: path, Code: "MAX_LENGTH_VIOLATION", Expected: fmt.Sprintf("at most %d characters", fv.MaxLength), Actual: fmt.Sprintf("%d characters", length),
			Message: fmt.Sprintf("Field '%s' must be at most %d characters long", field, fv.MaxLength)})
	}
	if fv.Pattern != nil && !fv.Pattern.MatchString(str) {
		issues = append(issues, Issue{Path: path, Code: "PATTERN_MISMATCH", Expected: "match " + fv.Pattern.String(), Actual: quote(str),
			Message: fmt.Sprintf("Field '%s' does not match required pattern", field)})
	}
	if len(fv.Options) > 0 && !contains(fv.Options, str) {
		msg := fmt.Sprintf("Field '%s' must be one of: %s", field, strings.Join(fv.Options, ", "))
		if s := Suggest(str, fv.Options); s != "" {
			msg += fmt.Sprintf(" (did you mean '%s'?)", s)
		}
		issues = append(issues, Issue{Path: path, Code: "INVALID_OPTION", Expected: "one of: " + strings.Join(fv.Options, ", "), Actual: quote(str), Message: msg})
	}

	switch fv.Type {
	case TypeURL:
		if !IsSafeURL(str) {
			issues = append(issues, Issue{Path: path, Code: "INVALID_URL", Expected: "http(s) URL, data:image URI or relative path", Actual: quote(str),
				Message: fmt.Sprintf("Field '%s' is not an allowed URL", field)})
		}
	case TypeColor:
		if !theme.IsColor(str) {
			issues = append(issues, Issue{Path: path, Code: "INVALID_COLOR", Expected: "hex color, CSS color or theme:<name>", Actual: quote(str),
				Message: fmt.Sprintf("Field '%s' is not a color", field)})
		}
	}

	return issues
}

func checkItemCount(path string, fv FieldValidator, n int) *Issue {
	label := orDefault(fv.Label, "item")
	switch {
	case fv.MinItems > 0 && fv.MinItems == fv.MaxItems && n != fv.MinItems:
		return &Issue{Path: path, Code: "ITEM_COUNT", Expected: fmt.Sprintf("exactly %d %ss", fv.MinItems, label), Actual: fmt.Sprintf("%d", n),
			Message: fmt.Sprintf("Field '%s' needs exactly %d %ss", lastSegment(path), fv.MinItems, label)}
	case fv.MinItems > 0 && n < fv.MinItems:
		msg := fmt.Sprintf("Field '%s' needs at least %d %ss", lastSegment(path), fv.MinItems, label)
		if fv.MinItems == 1 {
			msg = fmt.Sprintf("at least one %s required", label)
		}
		return &Issue{Path: path, Code: "MIN_ITEMS", Expected: fmt.Sprintf("at least %d %s(s)", fv.MinItems, label), Actual: fmt.Sprintf("%d", n), Message: msg}
	case fv.MaxItems > 0 && n > fv.MaxItems:
		return &Issue{Path: path, Code: "MAX_ITEMS", Expected: fmt.Sprintf("at most %d %s(s)", fv.MaxItems, label), Actual: fmt.Sprintf("%d", n),
			Message: fmt.Sprintf("Field '%s' allows at most %d %ss", lastSegment(path), fv.MaxItems, label)}
	}
	return nil
}

// IsSafeURL accepts http(s) URLs, data:image URIs and relative references
func IsSafeURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(raw), "data:image/") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		return !strings.HasPrefix(raw, "//") || u.Host != ""
	case "http", "https":
		return u.Host != ""
	default:
		return false
	}
}

// Suggest returns the best fuzzy match for input among candidates, or ""
func Suggest(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}
	if matches := fuzzy.Find(input, candidates); len(matches) > 0 {
		return matches[0].Str
	}
	// Try the other direction so that over-long inputs like "timelines" still match.
	best, bestLen := "", 0
	for _, c := range candidates {
		if len(fuzzy.Find(c, []string{input})) > 0 && len(c) > bestLen {
			best, bestLen = c, len(c)
		}
	}
	if best != "" {
		return best
	}
	// Transposed letters defeat subsequence matching; fall back to edit distance.
	limit := utf8.RuneCountInString(input)/3 + 1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(strings.ToLower(input), strings.ToLower(c)); d <= limit && (best == "" || d < bestLen) {
			best, bestLen = c, d
		}
	}
	return best
}

func describe(fv FieldValidator) string {
	switch fv.Type {
	case TypeString:
		if len(fv.Options) > 0 {
			return "one of: " + strings.Join(fv.Options, ", ")
		}
		if fv.MinLength > 0 {
			return "non-empty string"
		}
		return "string"
	case TypeURL:
		return "URL string"
	case TypeColor:
		return "color string"
	case TypeNumber:
		return "number"
	case TypeInt:
		return "integer"
	case TypeBool:
		return "boolean"
	case TypeScalar:
		return "string or number"
	case TypeStringArray:
		return "array of strings"
	case TypeNumberArray:
		return "array of numbers"
	case TypeArray:
		if fv.Label != "" {
			return "array of " + fv.Label + "s"
		}
		return "array"
	case TypeObject:
		return "object"
	default:
		return "value"
	}
}

func typeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	if _, ok := toFloat(value); ok {
		return "number"
	}
	return fmt.Sprintf("%T", value)
}

func describeValue(value interface{}, exists bool) string {
	if !exists {
		return "missing"
	}
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		if v == "" {
			return "empty string"
		}
		return quote(v)
	default:
		return typeName(value)
	}
}

func isBlank(value interface{}) bool {
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) == ""
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

func withArticle(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + s
	}
	return "a " + s
}

func quote(s string) string {
	if utf8.RuneCountInString(s) > 60 {
		s = string([]rune(s)[:57]) + "..."
	}
	return fmt.Sprintf("%q", s)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

// ToAppError converts validation result to AppError
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result.Valid {
		return nil
	}

	message := "presentation spec is invalid"
	if len(result.Issues) > 0 {
		message = result.Issues[0].Message
	}

	appErr := errors.SpecValidationError(message, result.Issues)
	appErr.WithDetails(strings.Join(result.Issues.Lines(), "; "))
	if result.Example != nil {
		appErr.WithContext("example", result.Example)
	}
	if len(result.Warnings) > 0 {
		appErr.WithContext("warnings", result.Warnings)
	}

	return appErr
}
