package aws

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
)

// Session errors.
var (
	ErrRegionRequired     = errors.New("aws region required")
	ErrPartialCredentials  = errors.New("aws access key id and secret access key must be set together")
)

// SessionConfig holds the settings used to connect to AWS.
type SessionConfig struct {
	Region string

	// Static credentials. When both are empty the SDK's default chain is
	// used (environment, shared config, instance role).
	AccessKeyID     string
	SecretAccessKey string

	// Overrides the service endpoint, e.g. for a local SNS emulator.
	Endpoint string
}

// Session represents a session to AWS.
type Session struct {
	session *session.Session
}

// NewSession returns a session built from cfg.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Region == "" {
		return nil, ErrRegionRequired
	} else if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, ErrPartialCredentials
	}

	config := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		config.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		config.Endpoint = aws.String(cfg.Endpoint)
	}

	s, err := session.NewSession(config)
	if err != nil {
		return nil, err
	}
	return &Session{session: s}, nil
}

// Region returns the region the session is bound to.
func (s *Session) Region() string {
	return aws.StringValue(s.session.Config.Region)
}

// Endpoint returns the endpoint override, if any.
func (s *Session) Endpoint() string {
	return aws.StringValue(s.session.Config.Endpoint)
}
