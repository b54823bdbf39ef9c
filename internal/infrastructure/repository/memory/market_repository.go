package memory

import (
	"context"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
)

type MarketRepository struct {
	v txView
}

func (r *MarketRepository) GetConfig(_ context.Context) (market.Config, bool, error) {
	var (
		cfg market.Config
		ok  bool
	)
	r.v.read(func(st *state) {
		if st.market != nil {
			cfg, ok = *st.market, true
		}
	})
	return cfg, ok, nil
}

func (r *MarketRepository) SaveConfig(_ context.Context, cfg market.Config) error {
	return r.v.write(func(st *state) error {
		st.market = &cfg
		return nil
	})
}
