package v1

import (
	"fmt"
	"sort"
	"time"
)

// ValueType is the storage type of a feature field.
type ValueType string

const (
	// Float64 is a double precision feature.
	Float64 ValueType = "Float64"
	// Int64 is an integer feature.
	Int64 ValueType = "Int64"
	// String is a text feature.
	String ValueType = "String"
)

// Entity is the join key features are looked up by.
type Entity struct {
	Name        string
	JoinKey     string
	ValueType   ValueType
	Description string
}

// Field is one feature of a view.
type Field struct {
	Name  string
	Dtype ValueType
}

// FileSource points a view at a processed dataset.
type FileSource struct {
	Version        string
	TimestampField string
}

// FeatureView declares a group of features served for an entity.
type FeatureView struct {
	Name     string
	Entities []Entity
	TTL      time.Duration
	Schema   []Field
	Online   bool
	Source   FileSource
}

// StockEntity is the instrument entity.
var StockEntity = Entity{
	Name:        "stock",
	JoinKey:     ColumnStock,
	ValueType:   String,
	Description: "Stock symbol",
}

var stockSchema = []Field{
	{Name: ColumnRollingAvg10, Dtype: Float64},
	{Name: ColumnVolumeSum10, Dtype: Float64},
	{Name: ColumnTarget, Dtype: Int64},
	{Name: ColumnOpen, Dtype: Float64},
	{Name: ColumnHigh, Dtype: Float64},
	{Name: ColumnLow, Dtype: Float64},
	{Name: ColumnClose, Dtype: Float64},
	{Name: ColumnVolume, Dtype: Float64},
}

// Declared feature views
var (
	StockFeaturesV0 = newStockView("0")
	StockFeaturesV1 = newStockView("1")
)

var viewRegistry = map[string]FeatureView{
	StockFeaturesV0.Name: StockFeaturesV0,
	StockFeaturesV1.Name: StockFeaturesV1,
}

func newStockView(version string) FeatureView {
	return FeatureView{
		Name:     ViewName(version),
		Entities: []Entity{StockEntity},
		TTL:      24 * time.Hour,
		Schema:   stockSchema,
		Online:   true,
		Source:   FileSource{Version: version, TimestampField: ColumnTimestamp},
	}
}

// ViewName returns the feature view name of a dataset version.
func ViewName(version string) string {
	return "stock_features_v" + version
}

// GetView returns a declared feature view by name.
func GetView(name string) (FeatureView, error) {
	view, ok := viewRegistry[name]
	if !ok {
		return FeatureView{}, fmt.Errorf("unknown feature view: %s", name)
	}
	return view, nil
}

// ViewNames lists every declared feature view, sorted.
func ViewNames() []string {
	names := make([]string, 0, len(viewRegistry))
	for name := range viewRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldNames returns the schema field names in declaration order.
func (v FeatureView) FieldNames() []string {
	names := make([]string, 0, len(v.Schema))
	for _, f := range v.Schema {
		names = append(names, f.Name)
	}
	return names
}
