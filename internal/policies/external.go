package policies

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/debarchive/britney/internal/policy"
)

// ExternalCheckPort stands in for every Launchpad/CI/AMQP/SMTP/cloud-test
// backed policy spec.md §1 puts out of scope: a single contract returning
// a verdict for a (source, source-version, target-suite) tuple.
type ExternalCheckPort interface {
	Check(ctx context.Context, source, sourceVersion, targetSuite string) (policy.Verdict, error)
}

// ExternalPolicy adapts one ExternalCheckPort into the engine, retrying
// transient failures at a constant interval, a bounded number of times (spec.md §7 item 5)
// and recording REJECTED_TEMPORARILY once attempts are exhausted.
type ExternalPolicy struct {
	name     string
	port     ExternalCheckPort
	log      zerolog.Logger
	interval time.Duration
	retries  uint64
}

// NewExternalPolicy names the policy after the backing port (e.g.
// "launchpad", "autopkgtest") for logging and PolicyInfo attribution.
func NewExternalPolicy(name string, port ExternalCheckPort, log zerolog.Logger) *ExternalPolicy {
	return &ExternalPolicy{name: name, port: port, log: log, interval: 2 * time.Second, retries: 3}
}

// WithBackoff overrides the default constant retry interval and the number
// of retries after the first call, mainly so tests don't pay the
// production retry latency.
func (p *ExternalPolicy) WithBackoff(interval time.Duration, retries uint64) *ExternalPolicy {
	p.interval = interval
	p.retries = retries
	return p
}

func (p *ExternalPolicy) Name() string { return p.name }

func (p *ExternalPolicy) Check(ctx context.Context, c *policy.Candidate) (policy.Verdict, error) {
	var verdict policy.Verdict
	backOff := backoff.WithMaxRetries(backoff.NewConstantBackOff(p.interval), p.retries)

	err := backoff.Retry(func() error {
		v, err := p.port.Check(ctx, c.Source, c.SourceVersion, c.Suite)
		if err != nil {
			return err
		}
		verdict = v
		return nil
	}, backoff.WithContext(backOff, ctx))

	if err != nil {
		p.log.Warn().Err(err).Str("source", c.Source).Str("external-policy", p.name).
			Msg("external policy check exhausted retries")
		c.AddReason(p.name)
		return policy.VerdictRejectedTemporarily, nil
	}

	c.PolicyInfo[p.name] = verdict.String()
	return verdict, nil
}
