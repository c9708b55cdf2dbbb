package v1

import "context"

// TickReader loads the raw ticks of an instrument. A missing source is reported
// with an error satisfying errors.Is(err, fs.ErrNotExist).
//
//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock
type TickReader interface {
	Read(ctx context.Context, path string) ([]Tick, error)
}
