package weeklystat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawRow is an untyped spreadsheet-like score row.
type RawRow map[string]any

// ScoreRecord is a validated score row.
type ScoreRecord struct {
	Line     int
	PlayerID string
	Week     int
	Year     int
	Points   int64
	Division string
}

// ParsedRow is either a Record or an Err, never both.
type ParsedRow struct {
	Line   int
	Record *ScoreRecord
	Err    error
}

func (r ParsedRow) Valid() bool {
	return r.Err == nil && r.Record != nil
}

// ParseRow reads player id, points and an optional division from a raw row.
// Week and year come from the batch unless the row overrides them.
func ParseRow(line int, raw RawRow, week, year int) ParsedRow {
	out := ParsedRow{Line: line}

	playerID, ok := stringField(raw, "id", "player_id", "playerId")
	if !ok || playerID == "" {
		out.Err = fmt.Errorf("%w: missing player id", ErrInvalidRow)
		return out
	}

	pointsValue, ok := lookup(raw, "puntos", "points")
	if !ok {
		out.Err = fmt.Errorf("%w: missing points", ErrInvalidRow)
		return out
	}
	points, err := toInt64(pointsValue)
	if err != nil {
		out.Err = fmt.Errorf("%w: points: %v", ErrInvalidRow, err)
		return out
	}
	if points < -MaxAbsPoints || points > MaxAbsPoints {
		out.Err = fmt.Errorf("%w: points must be between %d and %d", ErrInvalidRow, -MaxAbsPoints, MaxAbsPoints)
		return out
	}

	if value, ok := lookup(raw, "semana", "week"); ok {
		parsed, err := toInt64(value)
		if err != nil {
			out.Err = fmt.Errorf("%w: week: %v", ErrInvalidRow, err)
			return out
		}
		week = int(parsed)
	}
	if value, ok := lookup(raw, "año", "anio", "year"); ok {
		parsed, err := toInt64(value)
		if err != nil {
			out.Err = fmt.Errorf("%w: year: %v", ErrInvalidRow, err)
			return out
		}
		year = int(parsed)
	}
	if err := ValidatePeriod(week, year); err != nil {
		out.Err = err
		return out
	}

	division, _ := stringField(raw, "division", "división")

	out.Record = &ScoreRecord{
		Line:     line,
		PlayerID: playerID,
		Week:     week,
		Year:     year,
		Points:   points,
		Division: division,
	}
	return out
}

func ValidatePeriod(week, year int) error {
	if week < MinWeek || week > MaxWeek {
		return fmt.Errorf("%w: week must be between %d and %d", ErrInvalidRow, MinWeek, MaxWeek)
	}
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidRow, MinYear, MaxYear)
	}
	return nil
}

func lookup(raw RawRow, keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := raw[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func stringField(raw RawRow, keys ...string) (string, bool) {
	value, ok := lookup(raw, keys...)
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("out of range: %v", v)
		}
		return int64(v), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}
