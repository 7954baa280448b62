package app

import (
	"context"
	"time"

	"github.com/yungbote/neurobridge-dashboard/internal/aggregate"
	"github.com/yungbote/neurobridge-dashboard/internal/auth"
	"github.com/yungbote/neurobridge-dashboard/internal/dashboard"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
)

// Probe runs every dashboard fan-out once against the configured upstreams.
type Probe struct {
	log      *logger.Logger
	svc      *dashboard.Service
	verifier *auth.Verifier
}

func NewProbe(log *logger.Logger, cfg Config) (*Probe, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}
	up, err := wireUpstream(log, cfg.Upstream)
	if err != nil {
		return nil, err
	}
	return &Probe{
		log:      log,
		verifier: verifier,
		svc: dashboard.NewService(log, up, nil, dashboard.Options{
			CallTimeout:       cfg.Upstream.CallTimeout,
			LookupConcurrency: cfg.Upstream.LookupConcurrency,
		}),
	}, nil
}

// Run probes as the holder of token. With no token one is issued for userID.
func (p *Probe) Run(ctx context.Context, token, userID string) ([]aggregate.Report, error) {
	if token == "" {
		var err error
		token, err = p.verifier.Issue(userID, "instructor", 5*time.Minute)
		if err != nil {
			return nil, err
		}
	}
	ctx, err := p.verifier.ContextFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		p.log.Debug("probing upstreams", "user_id", rd.UserID)
	}
	return p.svc.Probe(ctx), nil
}
