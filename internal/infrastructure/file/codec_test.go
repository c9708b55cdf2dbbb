package file

import (
	"math"
	"testing"
	"time"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		name       string
		value      string
		wantOffset int
		wantHour   int
		wantErr    bool
	}{
		{name: "with offset", value: "2015-02-02 09:15:00+05:30", wantOffset: 19800, wantHour: 9},
		{name: "naive", value: "2015-02-02 09:15:00", wantOffset: 0, wantHour: 9},
		{name: "rfc3339", value: "2015-02-02T09:15:00+05:30", wantOffset: 19800, wantHour: 9},
		{name: "iso naive", value: "2015-02-02T09:15:00", wantOffset: 0, wantHour: 9},
		{name: "minute resolution", value: " 2015-02-02 10:01 ", wantOffset: 0, wantHour: 10},
		{name: "garbage", value: "yesterday", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts, err := ParseTimestamp(tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, offset := ts.Zone()
			assert.Equal(t, tc.wantOffset, offset)
			assert.Equal(t, tc.wantHour, ts.Hour())
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	withOffset, err := ParseTimestamp("2015-02-02 09:15:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, "2015-02-02 09:15:00+05:30", FormatTimestamp(withOffset))

	naive, err := ParseTimestamp("2015-02-02 09:15:00")
	require.NoError(t, err)
	assert.Equal(t, "2015-02-02 09:15:00", FormatTimestamp(naive))

	assert.Equal(t, "2015-02-02 09:16:00+05:30", FormatTimestamp(withOffset.Add(time.Minute)))
}

func TestFloatCodec(t *testing.T) {
	v, err := ParseFloat("")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))

	v, err = ParseFloat(" 104.5 ")
	require.NoError(t, err)
	assert.Equal(t, 104.5, v)

	_, err = ParseFloat("abc")
	assert.Error(t, err)

	assert.Equal(t, "", FormatFloat(math.NaN()))
	assert.Equal(t, "10000.0", FormatFloat(10000))
	assert.Equal(t, "104.5", FormatFloat(104.5))
	assert.Equal(t, "-3.25", FormatFloat(-3.25))
	assert.Equal(t, "+Inf", FormatFloat(math.Inf(1)))
	assert.Equal(t, "0.0", FormatFloat(0))
}

func TestFormatFloat_ExponentForm(t *testing.T) {
	testCases := []struct {
		value float64
		want  string
	}{
		{value: 0.0001, want: "0.0001"},
		{value: 0.00001, want: "1e-05"},
		{value: -0.000025, want: "-2.5e-05"},
		{value: 1e15, want: "1000000000000000.0"},
		{value: 1e16, want: "1e+16"},
		{value: 1.5e17, want: "1.5e+17"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			got := FormatFloat(tc.value)
			assert.Equal(t, tc.want, got)

			parsed, err := ParseFloat(got)
			require.NoError(t, err)
			assert.Equal(t, tc.value, parsed)
		})
	}
}

func TestHeaderIndex(t *testing.T) {
	index, err := HeaderIndex([]string{"\ufefftimestamp", " close ", "open"}, []string{"timestamp", "open", "close"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"timestamp": 0, "close": 1, "open": 2}, index)

	_, err = HeaderIndex([]string{"timestamp", "open"}, []string{"timestamp", "open", "close", "volume"})
	require.Error(t, err)

	baseErr, ok := err.(*errors.BaseError)
	require.True(t, ok)
	assert.True(t, baseErr.IsAllCodeEqual(string(errors.CSVMissingColumnError)))
	assert.Equal(t, []string{"close", "volume"}, baseErr.Fields())
}

func TestMalformedCell(t *testing.T) {
	err := MalformedCell(3, "close", "x", assert.AnError)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.CSVMalformedRecordError)))
	assert.Equal(t, "close", err.Field)
	assert.Contains(t, err.Error(), "line 3")
}
