package client

import (
	"context"

	"github.com/dmitrijs2005/resumefit/internal/client/models"
)

// Authenticator exchanges credentials with the auth endpoints.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Signup(ctx context.Context, name, email, password string) error
}

// Analyzer submits one application for analysis, authorized by token.
type Analyzer interface {
	SubmitApplication(ctx context.Context, token string, app models.Application) (*models.AnalysisResult, error)
}

type Client interface {
	Authenticator
	Analyzer
	Ping(ctx context.Context) error
	Close() error
}
