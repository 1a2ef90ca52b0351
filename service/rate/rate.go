package rate

import (
	"context"

	"stellend/core"
	"stellend/internal/lending"
	"stellend/pkg/number"

	"github.com/shopspring/decimal"
)

type rateService struct {
	curves core.IRateCurveStore
}

// New new rate service
func New(curves core.IRateCurveStore) core.IRateService {
	return &rateService{curves: curves}
}

func (s *rateService) Init(ctx context.Context, baseRate, slope1, slope2, optimalUtilization decimal.Decimal) error {
	for _, d := range []decimal.Decimal{baseRate, slope1, slope2, optimalUtilization} {
		if d.Sign() < 0 || !number.IsIntegral(d) {
			return core.ErrInvalidInput
		}
	}

	// the kink must sit strictly inside the utilization range
	if optimalUtilization.Sign() <= 0 || optimalUtilization.GreaterThanOrEqual(lending.Scale) {
		return core.ErrInvalidInput
	}

	if _, err := s.curves.Find(ctx); err == nil {
		return core.ErrAlreadyInitialized
	} else if err != core.ErrNotInitialized {
		return err
	}

	curve := &core.RateCurve{
		ID:                 1,
		BaseRate:           baseRate,
		Slope1:             slope1,
		Slope2:             slope2,
		OptimalUtilization: optimalUtilization,
	}

	return s.curves.Create(ctx, curve)
}

func (s *rateService) Curve(ctx context.Context) (*core.RateCurve, error) {
	return s.curves.Find(ctx)
}

func (s *rateService) GetBorrowRate(ctx context.Context, utilization decimal.Decimal) (decimal.Decimal, error) {
	curve, err := s.curves.Find(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return s.model(curve).BorrowRate(utilization), nil
}

func (s *rateService) GetSupplyRate(ctx context.Context, utilization decimal.Decimal) (decimal.Decimal, error) {
	curve, err := s.curves.Find(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return s.model(curve).SupplyRate(utilization), nil
}

func (s *rateService) model(curve *core.RateCurve) lending.Curve {
	return lending.Curve{
		BaseRate:           curve.BaseRate,
		Slope1:             curve.Slope1,
		Slope2:             curve.Slope2,
		OptimalUtilization: curve.OptimalUtilization,
	}
}
