package market

import "context"

type Repository interface {
	GetConfig(ctx context.Context) (Config, bool, error)
	SaveConfig(ctx context.Context, cfg Config) error
}
