// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// Column names of the DataFrame returned by Frame.
const (
	PathCol     = "path"
	LabelCol    = "label"
	CategoryCol = "category"
)

// Category of an image path: its first path segment, typically the directory holding one class.
// A path without "/" is its own category.
func Category(p string) string {
	if idx := strings.IndexByte(p, '/'); idx >= 0 {
		return p[:idx]
	}
	return p
}

// Categories returns the sorted list of unique categories found in records.
func Categories(records []Record) []string {
	cats := make([]string, 0, len(records))
	for _, record := range records {
		cats = append(cats, Category(record.Path))
	}
	slices.Sort(cats)
	return slices.Compact(cats)
}

// Frame converts records to a DataFrame with the string columns PathCol, LabelCol and CategoryCol.
func Frame(records []Record) dataframe.DataFrame {
	paths := make([]string, len(records))
	labels := make([]string, len(records))
	cats := make([]string, len(records))
	for ii, record := range records {
		paths[ii] = record.Path
		labels[ii] = record.Label
		cats[ii] = Category(record.Path)
	}
	return dataframe.New(
		series.New(paths, series.String, PathCol),
		series.New(labels, series.String, LabelCol),
		series.New(cats, series.String, CategoryCol),
	)
}

// Count of rows holding Value in some column.
type Count struct {
	Value string
	Count int
}

// MissingValue is the Count.Value reported for rows that gota holds as missing: gota string series
// read the value "NaN" as missing.
const MissingValue = "NaN"

// CountBy counts the rows of df for each distinct value of the column colName, grouping and aggregating
// with the DataFrame itself. The result is sorted by value.
func CountBy(df dataframe.DataFrame, colName string) ([]Count, error) {
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "invalid DataFrame")
	}
	col := df.Col(colName)
	if col.Err != nil {
		return nil, errors.Wrapf(col.Err, "invalid column %q", colName)
	}
	if df.Nrow() == 0 {
		return nil, nil
	}

	// gota can't group missing values, so they are counted apart.
	numMissing := 0
	for _, isNaN := range col.IsNaN() {
		if isNaN {
			numMissing++
		}
	}
	var result []Count
	if numMissing < df.Nrow() {
		present := df
		if numMissing > 0 {
			present = df.Filter(dataframe.F{
				Colname:    colName,
				Comparator: series.CompFunc,
				Comparando: func(el series.Element) bool { return !el.IsNA() },
			})
		}
		groups := present.GroupBy(colName)
		if groups.Err != nil {
			return nil, errors.Wrapf(groups.Err, "failed to group by %q", colName)
		}
		countCol := fmt.Sprintf("%s_%s", PathCol, dataframe.Aggregation_COUNT)
		counts := groups.
			Aggregation([]dataframe.AggregationType{dataframe.Aggregation_COUNT}, []string{PathCol}).
			Arrange(dataframe.Sort(colName))
		if counts.Err != nil {
			return nil, errors.Wrapf(counts.Err, "failed to count rows by %q", colName)
		}
		values := counts.Col(colName).Records()
		numRows := counts.Col(countCol).Float()
		result = make([]Count, len(values), len(values)+1)
		for ii, value := range values {
			result[ii] = Count{Value: value, Count: int(numRows[ii])}
		}
	}
	if numMissing > 0 {
		result = append(result, Count{Value: MissingValue, Count: numMissing})
		slices.SortStableFunc(result, func(a, b Count) int { return strings.Compare(a.Value, b.Value) })
	}
	return result, nil
}

// LabelCounts returns the number of records per label, sorted by label.
func LabelCounts(records []Record) ([]Count, error) {
	return CountBy(Frame(records), LabelCol)
}
