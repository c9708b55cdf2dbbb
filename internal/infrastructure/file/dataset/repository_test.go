package dataset

import (
	"context"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Path(t *testing.T) {
	repo := NewRepository("data/processed")
	assert.Equal(t, filepath.Join("data", "processed", "processed_v1.csv"), repo.Path("1"))
}

func TestRepository_WriteRead(t *testing.T) {
	ist := time.FixedZone("", 5*3600+1800)
	base := time.Date(2015, 2, 2, 9, 15, 0, 0, ist)
	rows := []featurev1.Row{
		{
			Tick:         tickv1.Tick{Timestamp: base, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000},
			RollingAvg10: 100.5,
			VolumeSum10:  1000,
			Target:       1,
			Stock:        "AARTIIND",
		},
		{
			Tick:         tickv1.EmptyTick(base.Add(time.Minute)),
			RollingAvg10: math.NaN(),
			VolumeSum10:  math.NaN(),
			Target:       0,
			Stock:        "AARTIIND",
		},
	}

	dir := filepath.Join(t.TempDir(), "processed")
	repo := NewRepository(dir)
	require.NoError(t, repo.Write(context.Background(), "0", rows))

	raw, err := os.ReadFile(repo.Path("0"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,open,high,low,close,volume,rolling_avg_10,volume_sum_10,target,stock", lines[0])
	assert.Equal(t, "2015-02-02 09:15:00+05:30,100.0,101.0,99.0,100.5,1000.0,100.5,1000.0,1,AARTIIND", lines[1])
	assert.Equal(t, "2015-02-02 09:16:00+05:30,,,,,,,,0,AARTIIND", lines[2])

	got, err := repo.Read(context.Background(), "0")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Timestamp.Equal(base))
	assert.Equal(t, 100.5, got[0].Close)
	assert.Equal(t, 1, got[0].Target)
	assert.Equal(t, "AARTIIND", got[0].Stock)
	assert.True(t, math.IsNaN(got[1].RollingAvg10))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRepository_Read_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		content  *string
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "missing dataset",
			assertFn: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, fs.ErrNotExist)
			},
		},
		{
			name:    "missing target column",
			content: ptr("timestamp,open,high,low,close,volume,rolling_avg_10,volume_sum_10,stock\n"),
			assertFn: func(t *testing.T, err error) {
				baseErr, ok := err.(*errors.BaseError)
				require.True(t, ok)
				assert.Equal(t, []string{"target"}, baseErr.Fields())
			},
		},
		{
			name:    "fractional label",
			content: ptr("timestamp,open,high,low,close,volume,rolling_avg_10,volume_sum_10,target,stock\n2015-02-02 09:15:00,1,1,1,1,1,1,1,0.5,X\n"),
			assertFn: func(t *testing.T, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.CSVMalformedRecordError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewRepository(t.TempDir())
			if tc.content != nil {
				require.NoError(t, os.WriteFile(repo.Path("1"), []byte(*tc.content), 0o644))
			}

			_, err := repo.Read(context.Background(), "1")
			require.Error(t, err)
			tc.assertFn(t, err)
		})
	}
}

func TestParseTarget(t *testing.T) {
	v, err := parseTarget("1.0")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = parseTarget(" 0 ")
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	_, err = parseTarget("yes")
	assert.Error(t, err)
}

func ptr(s string) *string {
	return &s
}
