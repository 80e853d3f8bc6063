package fetcher

import (
	"context"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// Fetcher returns the raw legs for one hop query.
// Implementations must be idempotent and free of side effects visible to
// the caller; failures should be *Error values.
type Fetcher interface {
	Fetch(ctx context.Context, origin, destination string, date time.Time) ([]model.RawLeg, error)
}

// Func adapts a function to the Fetcher interface.
type Func func(ctx context.Context, origin, destination string, date time.Time) ([]model.RawLeg, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, origin, destination string, date time.Time) ([]model.RawLeg, error) {
	return f(ctx, origin, destination, date)
}

// response is the body shape shared by the HTTP endpoint and fixture files.
type response struct {
	Flights *[]model.RawLeg `json:"flights"`
}
