package v1

// MaterializeSummary reports what a feature view materialization wrote.
type MaterializeSummary struct {
	View         string
	Rows         int
	OfflineRows  int64
	OnlineKeys   int
	RowsPerStock map[string]int64
}
