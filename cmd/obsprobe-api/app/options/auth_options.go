package options

import (
	"github.com/spf13/pflag"
)

type AuthOptions struct {
	JwtSecret string
}

func NewAuthOptions() *AuthOptions {
	return &AuthOptions{}
}

func (o *AuthOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.JwtSecret, "jwt-secret", o.JwtSecret, "secret verifying API bearer tokens, empty disables authentication")
}

func (o *AuthOptions) Validate() error {
	return nil
}
