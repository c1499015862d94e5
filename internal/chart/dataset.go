package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
)

// ParseDataset converts untyped chart data, as decoded from YAML or JSON,
// into a ChartDataset. Anything that cannot be plotted is reported as a
// chart data shape error.
func ParseDataset(kind models.ChartKind, raw interface{}) (models.ChartDataset, error) {
	switch v := raw.(type) {
	case models.ChartDataset:
		return checkDataset(kind, v)
	case *models.ChartDataset:
		if v == nil {
			return models.ChartDataset{}, shapeError(kind, "chart data is missing")
		}
		return checkDataset(kind, *v)
	case nil:
		return models.ChartDataset{}, shapeError(kind, "chart data is missing")
	case map[string]interface{}:
		return parseMap(kind, v)
	default:
		return models.ChartDataset{}, shapeError(kind, fmt.Sprintf("chart data must be an object with labels and series, got %T", raw))
	}
}

func parseMap(kind models.ChartKind, m map[string]interface{}) (models.ChartDataset, error) {
	_, hasSeries := m["series"]
	_, hasValues := m["values"]
	if !hasSeries && !hasValues {
		if _, ok := m["rows"]; ok {
			return models.ChartDataset{}, shapeError(kind, "table-shaped data (headers/rows) cannot be plotted; expected labels and series")
		}
		return models.ChartDataset{}, shapeError(kind, "chart data requires at least one series")
	}

	var ds models.ChartDataset

	if rawLabels, ok := m["labels"]; ok && rawLabels != nil {
		items, ok := rawLabels.([]interface{})
		if !ok {
			return ds, shapeError(kind, "labels must be an array")
		}
		for _, item := range items {
			ds.Labels = append(ds.Labels, labelString(item))
		}
	}

	if hasSeries {
		items, ok := m["series"].([]interface{})
		if !ok {
			return ds, shapeError(kind, "series must be an array")
		}
		for i, item := range items {
			sm, ok := item.(map[string]interface{})
			if !ok {
				return ds, shapeError(kind, fmt.Sprintf("series[%d] must be an object", i))
			}
			s, err := parseSeries(kind, i, sm)
			if err != nil {
				return ds, err
			}
			ds.Series = append(ds.Series, s)
		}
	} else {
		// Shorthand: a single unnamed series given as top-level values
		s, err := parseSeries(kind, 0, m)
		if err != nil {
			return ds, err
		}
		ds.Series = append(ds.Series, s)
	}

	return checkDataset(kind, ds)
}

func parseSeries(kind models.ChartKind, index int, m map[string]interface{}) (models.Series, error) {
	var s models.Series
	if name, ok := m["name"].(string); ok {
		s.Name = name
	}
	if color, ok := m["color"].(string); ok {
		s.Color = color
	}

	if rawValues, ok := m["values"]; ok && rawValues != nil {
		items, ok := rawValues.([]interface{})
		if !ok {
			return s, shapeError(kind, fmt.Sprintf("series[%d].values must be an array", index))
		}
		for j, item := range items {
			f, ok := toFloat(item)
			if !ok {
				return s, shapeError(kind, fmt.Sprintf("series[%d].values[%d] is not a number", index, j))
			}
			s.Values = append(s.Values, f)
		}
	}

	if rawPoints, ok := m["points"]; ok && rawPoints != nil {
		items, ok := rawPoints.([]interface{})
		if !ok {
			return s, shapeError(kind, fmt.Sprintf("series[%d].points must be an array", index))
		}
		for j, item := range items {
			pm, ok := item.(map[string]interface{})
			if !ok {
				return s, shapeError(kind, fmt.Sprintf("series[%d].points[%d] must be an object with x and y", index, j))
			}
			x, okX := toFloat(pm["x"])
			y, okY := toFloat(pm["y"])
			if !okX || !okY {
				return s, shapeError(kind, fmt.Sprintf("series[%d].points[%d] needs numeric x and y", index, j))
			}
			s.Points = append(s.Points, models.Point{X: x, Y: y})
		}
	}

	return s, nil
}

func checkDataset(kind models.ChartKind, ds models.ChartDataset) (models.ChartDataset, error) {
	if len(ds.Series) == 0 {
		return ds, shapeError(kind, "chart data requires at least one series")
	}
	for i, s := range ds.Series {
		for j, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return ds, shapeError(kind, fmt.Sprintf("series[%d].values[%d] is not a finite number", i, j))
			}
		}
	}
	return ds, nil
}

func shapeError(kind models.ChartKind, reason string) error {
	return apperrors.ChartDataShapeError(string(kind), reason)
}

func labelString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		if f, ok := toFloat(t); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return fmt.Sprint(t)
	}
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
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
