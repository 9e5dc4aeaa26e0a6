package options

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

type RefreshOptions struct {
	Interval time.Duration
}

func NewRefreshOptions() *RefreshOptions {
	return &RefreshOptions{
		Interval: time.Hour,
	}
}

func (o *RefreshOptions) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.Interval, "refresh-interval", o.Interval, "how often stored decisions are resolved again, 0 disables it")
}

func (o *RefreshOptions) Validate() error {
	if o.Interval < 0 {
		return errors.New("refresh-interval must not be negative")
	}

	return nil
}
