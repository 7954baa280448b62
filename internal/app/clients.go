package app

import (
	"fmt"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

func wireUpstream(log *logger.Logger, cfg UpstreamConfig) (upstream.Set, error) {
	log.Info("Wiring upstream clients...")
	build := func(domain upstream.Domain, ep upstream.Endpoint) (*upstream.HTTPClient, error) {
		c, err := upstream.NewHTTPClient(domain, ep, log)
		if err != nil {
			return nil, fmt.Errorf("init %s client: %w", domain, err)
		}
		return c, nil
	}
	enrollment, err := build(upstream.DomainEnrollment, cfg.Enrollment)
	if err != nil {
		return upstream.Set{}, err
	}
	course, err := build(upstream.DomainCourse, cfg.Course)
	if err != nil {
		return upstream.Set{}, err
	}
	payment, err := build(upstream.DomainPayment, cfg.Payment)
	if err != nil {
		return upstream.Set{}, err
	}
	identity, err := build(upstream.DomainIdentity, cfg.Identity)
	if err != nil {
		return upstream.Set{}, err
	}
	return upstream.NewSet(enrollment, course, payment, identity), nil
}
