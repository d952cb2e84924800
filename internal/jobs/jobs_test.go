package jobs_test

import (
	"context"
	"domainkeeper/internal/audit"
	"domainkeeper/internal/availability"
	"domainkeeper/internal/database"
	"domainkeeper/internal/database/databasetest"
	"domainkeeper/internal/domainrepo"
	"domainkeeper/internal/integrations/gitlab/gitlabtest"
	"domainkeeper/internal/jobs"
	"domainkeeper/internal/lock"
	"domainkeeper/internal/metrics"
	"domainkeeper/internal/queue/queuetest"
	"domainkeeper/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"testing"
)

type harness struct {
	env    *jobs.Env
	db     *gorm.DB
	fx     databasetest.Fixtures
	gitlab *gitlabtest.Server
	queue  *queuetest.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := databasetest.New(t)
	server := gitlabtest.New(t)
	recorder := &queuetest.Recorder{}

	h := &harness{
		db:     db,
		fx:     databasetest.Seed(t, db),
		gitlab: server,
		queue:  recorder,
		env: &jobs.Env{
			Domains:        database.NewDomainRepository(db),
			Configurations: database.NewConfigurationRepository(db),
			ChangeLogs:     database.NewChangeLogRepository(db),
			Repository:     domainrepo.NewService(server.Client(), "main"),
			Locker:         lock.NewLocal(),
			Queue:          recorder,
			Metrics:        metrics.New(nil),
		},
	}
	return h
}

func (h *harness) reload(t *testing.T, id uint) *types.Domain {
	t.Helper()
	d, err := h.env.Domains.FindByID(context.Background(), database.System().WithTrashed(), id)
	require.NoError(t, err)
	return d
}

func (h *harness) changeLogs(t *testing.T, id uint) []*types.ChangeLog {
	t.Helper()
	entries, err := h.env.ChangeLogs.FindByEntity(context.Background(), audit.EntityDomain, id)
	require.NoError(t, err)
	return entries
}

// requireSSLInvariant fails when a domain is marked ssl without a commit
func requireSSLInvariant(t *testing.T, d *types.Domain) {
	t.Helper()
	if d.SSL {
		require.True(t, d.HasCommit(), "domain %d has ssl without commit", d.ID)
	}
}

type fakeValidator struct {
	registered map[string]bool
	checked    []string
}

func (f *fakeValidator) Check(ctx context.Context, name string) (availability.Report, error) {
	f.checked = append(f.checked, name)
	return availability.Report{Registered: f.registered[name], Whois: "whois " + name, Source: availability.SourceWhois}, nil
}

type sequenceLabels struct {
	labels []string
	next   int
}

func (s *sequenceLabels) Generate(n int) (string, error) {
	label := s.labels[s.next%len(s.labels)]
	s.next++
	return label, nil
}

type recordingNotifier struct {
	calls [][]*types.Domain
}

func (r *recordingNotifier) SendBuyDomainEmail(ctx context.Context, domains ...*types.Domain) {
	r.calls = append(r.calls, domains)
}
