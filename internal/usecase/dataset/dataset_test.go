package dataset

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	datasetv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/dataset/v1"
	eventv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/event/v1"
	eventmock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/event/v1/mock"
	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	featuremock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1/mock"
	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
	tickmock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1/mock"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
	logger_mock "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger/mock"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/session"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/util"
)

var ist = time.FixedZone("", 5*3600+1800)

// minuteTicks returns n consecutive ticks from Monday 2015-02-02 09:15 IST.
func minuteTicks(n int, close0 float64) []tickv1.Tick {
	base := time.Date(2015, 2, 2, 9, 15, 0, 0, ist)
	ticks := make([]tickv1.Tick, n)
	for i := range ticks {
		c := close0 + float64(i)
		ticks[i] = tickv1.Tick{Timestamp: base.Add(time.Duration(i) * time.Minute), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return ticks
}

type mocks struct {
	reader    *tickmock.MockTickReader
	repo      *featuremock.MockDatasetRepository
	publisher *eventmock.MockPublisher
	logger    *logger_mock.MockInterface
}

func TestUsecase_Preprocess(t *testing.T) {
	dataDir := "data"
	aarti := filepath.Join(dataDir, "v0", "AARTIIND__EQ__NSE__NSE__MINUTE.csv")
	abcap := filepath.Join(dataDir, "v0", "ABCAPITAL__EQ__NSE__NSE__MINUTE.csv")
	notFound := fmt.Errorf("failed to open instrument file: %w", fs.ErrNotExist)

	testCases := []struct {
		name     string
		version  string
		mockFn   func(m mocks)
		assertFn func(t *testing.T, summary *datasetv1.Summary, err error)
	}{
		{
			name:    "concatenate instruments in manifest order",
			version: "0",
			mockFn: func(m mocks) {
				m.reader.EXPECT().Read(gomock.Any(), aarti).Return(minuteTicks(12, 100), nil)
				m.reader.EXPECT().Read(gomock.Any(), abcap).Return(minuteTicks(8, 200), nil)
				m.logger.EXPECT().InfoContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
				m.repo.EXPECT().
					Write(gomock.Any(), "0", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, rows []featurev1.Row) error {
						require.Len(t, rows, 10)
						assert.Equal(t, "AARTIIND", rows[0].Stock)
						assert.Equal(t, "ABCAPITAL", rows[7].Stock)
						assert.Equal(t, 200.0, rows[7].Close)
						for _, r := range rows {
							assert.Equal(t, 1, r.Target)
						}
						return nil
					})
				m.repo.EXPECT().Path("0").Return("data/processed/processed_v0.csv")
				m.publisher.EXPECT().
					Publish(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, e eventv1.Event) error {
						assert.Equal(t, eventv1.DatasetPublished, e.Type)
						assert.Equal(t, "0", e.Version)
						assert.Equal(t, "req-1", e.RequestID)
						assert.Equal(t, []string{"AARTIIND", "ABCAPITAL"}, e.Attributes["stocks"])
						return nil
					})
			},
			assertFn: func(t *testing.T, summary *datasetv1.Summary, err error) {
				require.NoError(t, err)
				assert.Equal(t, 10, summary.TotalRows)
				assert.Equal(t, "data/processed/processed_v0.csv", summary.OutputPath)
				require.Len(t, summary.Instruments, 2)
				assert.Equal(t, datasetv1.InstrumentSummary{Stock: "AARTIIND", Path: aarti, Ticks: 12, Minutes: 12, Rows: 7}, summary.Instruments[0])
				assert.Empty(t, summary.Missing)
			},
		},
		{
			name:    "skip missing instrument",
			version: "0",
			mockFn: func(m mocks) {
				m.reader.EXPECT().Read(gomock.Any(), aarti).Return(nil, notFound)
				m.logger.EXPECT().WarnContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
				m.reader.EXPECT().Read(gomock.Any(), abcap).Return(minuteTicks(8, 200), nil)
				m.logger.EXPECT().InfoContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
				m.repo.EXPECT().
					Write(gomock.Any(), "0", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, rows []featurev1.Row) error {
						require.Len(t, rows, 3)
						for _, r := range rows {
							assert.Equal(t, "ABCAPITAL", r.Stock)
						}
						assert.Equal(t, 200.0, rows[0].Close)
						return nil
					})
				m.repo.EXPECT().Path("0").Return("out.csv")
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			assertFn: func(t *testing.T, summary *datasetv1.Summary, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{aarti}, summary.Missing)
				assert.Equal(t, 3, summary.TotalRows)
			},
		},
		{
			name:    "no data when every file is missing",
			version: "0",
			mockFn: func(m mocks) {
				m.reader.EXPECT().Read(gomock.Any(), gomock.Any()).Return(nil, notFound).Times(2)
				m.logger.EXPECT().WarnContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(2)
				m.logger.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, summary *datasetv1.Summary, err error) {
				assert.Nil(t, summary)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.DatasetNoDataError)))
			},
		},
		{
			name:    "malformed file is fatal",
			version: "0",
			mockFn: func(m mocks) {
				m.reader.EXPECT().Read(gomock.Any(), aarti).Return(nil, errors.NewErrorDetails("line 3: cannot parse close", string(errors.CSVMalformedRecordError), "close"))
			},
			assertFn: func(t *testing.T, summary *datasetv1.Summary, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.CSVMalformedRecordError)))
			},
		},
		{
			name:    "publish failure is not fatal",
			version: "0",
			mockFn: func(m mocks) {
				m.reader.EXPECT().Read(gomock.Any(), gomock.Any()).Return(minuteTicks(6, 1), nil).Times(2)
				m.logger.EXPECT().InfoContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
				m.repo.EXPECT().Write(gomock.Any(), "0", gomock.Any()).Return(nil)
				m.repo.EXPECT().Path("0").Return("out.csv")
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(fmt.Errorf("broker down"))
				m.logger.EXPECT().WarnContext(gomock.Any(), "failed to publish dataset event", gomock.Any())
			},
			assertFn: func(t *testing.T, summary *datasetv1.Summary, err error) {
				require.NoError(t, err)
				assert.Equal(t, 2, summary.TotalRows)
			},
		},
		{
			name:    "unknown version",
			version: "7",
			mockFn:  func(m mocks) {},
			assertFn: func(t *testing.T, summary *datasetv1.Summary, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.DatasetInvalidVersionError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mocks{
				reader:    tickmock.NewMockTickReader(ctrl),
				repo:      featuremock.NewMockDatasetRepository(ctrl),
				publisher: eventmock.NewMockPublisher(ctrl),
				logger:    logger_mock.NewMockInterface(ctrl),
			}
			tc.mockFn(m)

			u := NewUsecase(m.reader, m.repo, m.publisher, session.NSEEquity, dataDir, m.logger)
			ctx := util.WithRequestID(context.Background(), "req-1")

			summary, err := u.Preprocess(ctx, tc.version)
			tc.assertFn(t, summary, err)
		})
	}
}
