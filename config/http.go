package config

import (
	"errors"
)

type HttpConfiguration struct {
	BasicAuth *BasicAuthConfiguration
	Tls       *TlsConfiguration
}

type BasicAuthConfiguration struct {
	Username string
	Password string
}

type TlsConfiguration struct {
	CertificatePath string
	PrivateKeyPath  string
	IsStrict        bool
}

func parseHttp(cfg Raw) (*HttpConfiguration, error) {
	httpCfg := &HttpConfiguration{}

	auth := cfg.Sub("basic_auth")
	if auth == nil {
		return nil, errors.New("section 'http.basic_auth' is required")
	}

	httpCfg.BasicAuth = &BasicAuthConfiguration{
		Username: auth.String("username"),
		Password: auth.String("password"),
	}

	if httpCfg.BasicAuth.Username == "" || httpCfg.BasicAuth.Password == "" {
		return nil, errors.New("'http.basic_auth.username' and 'http.basic_auth.password' must not be empty")
	}

	if tls := cfg.Sub("tls"); tls != nil {
		httpCfg.Tls = &TlsConfiguration{
			CertificatePath: tls.String("certificate"),
			PrivateKeyPath:  tls.String("private_key"),
			IsStrict:        tls.Bool("strict"),
		}

		if httpCfg.Tls.CertificatePath == "" || httpCfg.Tls.PrivateKeyPath == "" {
			return nil, errors.New("'http.tls' requires both 'certificate' and 'private_key'")
		}
	}

	return httpCfg, nil
}
