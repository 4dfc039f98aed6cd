// Package report lays the pipeline results out as typed tables.
package report

import (
	"bytes"
	"encoding/json"

	gojson "github.com/goccy/go-json"

	"github.com/getsentry/stylestats/internal/selectorstats"
)

const (
	NumericColumn ColumnType = "numeric"
	TextColumn    ColumnType = "text"
	BooleanColumn ColumnType = "boolean"
	AnyColumn     ColumnType = "any"

	TimelineTableName        = "timeline"
	SelectorsTableName       = "selectors"
	SelectorTimingsTableName = "selector_timings"
)

type (
	ColumnType string

	Column struct {
		Name string     `json:"name"`
		Type ColumnType `json:"type"`
	}

	// Table holds rows of values in column order. A nil value is a null
	// cell.
	Table struct {
		Name    string          `json:"name"`
		Columns []Column        `json:"columns"`
		Rows    [][]interface{} `json:"rows"`
	}
)

var (
	timelineColumns = []Column{
		{"key", TextColumn},
		{"iteration_key", TextColumn},
		{"process_id", NumericColumn},
		{"thread_id", NumericColumn},
		{"timestamp_us", NumericColumn},
		{"start_time_ms", NumericColumn},
		{"total_time_ms", NumericColumn},
		{"activity", TextColumn},
		{"name", TextColumn},
		{"category", TextColumn},
		{"phase", TextColumn},
		{"scope", TextColumn},
		{"recalc_style_iteration", NumericColumn},
		{"element_count", NumericColumn},
		{"invalidation_reason", TextColumn},
		{"invalidation_node_id", NumericColumn},
		{"invalidation_node_name", TextColumn},
		{"invalidation_subtree", BooleanColumn},
		{"invalidation_extra_data", TextColumn},
		{"elapsed_us", NumericColumn},
		{"match_attempts", NumericColumn},
		{"match_count", NumericColumn},
		{"reject_count", NumericColumn},
		{"fast_reject_count", NumericColumn},
		{"slow_reject_count", NumericColumn},
		{"selector_count", NumericColumn},
		{"args", AnyColumn},
	}

	selectorsColumns = []Column{
		{"selector", TextColumn},
		{"style_sheet_count", NumericColumn},
		{"elapsed_us", NumericColumn},
		{"match_attempts", NumericColumn},
		{"match_count", NumericColumn},
		{"reject_count", NumericColumn},
		{"fast_reject_count", NumericColumn},
		{"slow_reject_count", NumericColumn},
		{"selector_count", NumericColumn},
		{"p75_elapsed_us", NumericColumn},
		{"p95_elapsed_us", NumericColumn},
		{"p99_elapsed_us", NumericColumn},
	}

	selectorTimingsColumns = []Column{
		{"key", TextColumn},
		{"iteration_key", TextColumn},
		{"thread_id", NumericColumn},
		{"timestamp_us", NumericColumn},
		{"recalc_style_iteration", NumericColumn},
		{"selector", TextColumn},
		{"style_sheet_id", TextColumn},
		{"elapsed_us", NumericColumn},
		{"match_attempts", NumericColumn},
		{"match_count", NumericColumn},
		{"fast_reject_count", NumericColumn},
		{"reject_count", NumericColumn},
		{"slow_reject_count", NumericColumn},
	}
)

// TimelineTable has one row per timeline row. Aggregate columns are only
// set on SelectorStats rows.
func TimelineTable(rows []selectorstats.Row) Table {
	t := Table{
		Name:    TimelineTableName,
		Columns: timelineColumns,
		Rows:    make([][]interface{}, 0, len(rows)),
	}
	for _, r := range rows {
		values := []interface{}{
			r.Key,
			r.IterationKey,
			r.ProcessID,
			r.ThreadID,
			int64(r.TimestampUs),
			r.StartTimeMs,
			float64OrNil(r.TotalTimeMs),
			r.Activity,
			r.Name,
			r.Category,
			r.Phase,
			r.Scope,
			r.RecalcStyleIteration,
			int64OrNil(r.ElementCount),
		}
		if inv := r.Invalidation; inv != nil {
			values = append(values,
				stringOrNil(inv.Reason),
				int64OrNil(inv.NodeID),
				stringOrNil(inv.NodeName),
				boolOrNil(inv.Subtree),
				stringOrNil(inv.ExtraData),
			)
		} else {
			values = append(values, nil, nil, nil, nil, nil)
		}
		if a := r.Aggregate; a != nil {
			values = append(values,
				a.ElapsedUs,
				a.MatchAttempts,
				a.MatchCount,
				a.RejectCount,
				a.FastRejectCount,
				a.SlowRejectCount,
				a.SelectorCount,
			)
		} else {
			values = append(values, nil, nil, nil, nil, nil, nil, nil)
		}
		values = append(values, argsOrNil(r.Args))
		t.Rows = append(t.Rows, values)
	}
	return t
}

func SelectorsTable(reports []selectorstats.SelectorReport) Table {
	t := Table{
		Name:    SelectorsTableName,
		Columns: selectorsColumns,
		Rows:    make([][]interface{}, 0, len(reports)),
	}
	for _, r := range reports {
		t.Rows = append(t.Rows, []interface{}{
			r.SelectorText,
			int64(r.StyleSheetCount),
			r.ElapsedUs,
			r.MatchAttempts,
			r.MatchCount,
			r.RejectCount,
			r.FastRejectCount,
			r.SlowRejectCount,
			r.SelectorCount,
			r.P75ElapsedUs,
			r.P95ElapsedUs,
			r.P99ElapsedUs,
		})
	}
	return t
}

func SelectorTimingsTable(timings []selectorstats.TimingRow) Table {
	t := Table{
		Name:    SelectorTimingsTableName,
		Columns: selectorTimingsColumns,
		Rows:    make([][]interface{}, 0, len(timings)),
	}
	for _, r := range timings {
		t.Rows = append(t.Rows, []interface{}{
			r.Key,
			r.IterationKey,
			r.ThreadID,
			int64(r.TimestampUs),
			r.RecalcStyleIteration,
			r.SelectorText,
			r.StyleSheetID,
			r.ElapsedUs,
			r.MatchAttempts,
			r.MatchCount,
			r.FastRejectCount,
			r.RejectCount,
			r.SlowRejectCount,
		})
	}
	return t
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func float64OrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func int64OrNil(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func boolOrNil(v *bool) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringOrNil(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

// argsOrNil compacts the payload so that every row stays on one line.
func argsOrNil(v json.RawMessage) interface{} {
	if len(v) == 0 {
		return nil
	}
	var b bytes.Buffer
	if err := gojson.Compact(&b, v); err != nil {
		return v
	}
	return json.RawMessage(b.Bytes())
}
