package jobs_test

import (
	"context"
	"domainkeeper/internal/database/databasetest"
	"domainkeeper/internal/domainrepo"
	"domainkeeper/internal/jobs"
	"domainkeeper/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCheckDomainSSL(t *testing.T) {
	tests := []struct {
		name         string
		domainCommit string
		pipeline     string
		attempt      int
		wantSSL      bool
		wantNext     bool
		wantLogs     int
	}{
		{name: "pipeline succeeded", domainCommit: "abc", pipeline: "success", attempt: 1, wantSSL: true, wantLogs: 1},
		{name: "commit replaced meanwhile", domainCommit: "def", pipeline: "success", attempt: 1},
		{name: "pipeline running", domainCommit: "abc", pipeline: "running", attempt: 1, wantNext: true},
		{name: "pipeline not created yet", domainCommit: "abc", pipeline: "", attempt: 2, wantNext: true},
		{name: "gives up after max attempts", domainCommit: "abc", pipeline: "pending", attempt: jobs.MaxCheckAttempts},
		{name: "pipeline failed", domainCommit: "abc", pipeline: "failed", attempt: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			commit := test.domainCommit
			d := databasetest.CreateDomain(t, h.db, "example.com", h.fx.SSLConfiguration.ID, func(d *types.Domain) {
				d.CommitID = &commit
			})
			h.gitlab.SetPipeline("abc", test.pipeline)

			require.NoError(t, h.env.CheckDomainSSL("abc", d.ID, test.attempt).Handle(context.Background()))

			got := h.reload(t, d.ID)
			assert.Equal(t, test.wantSSL, got.SSL)
			requireSSLInvariant(t, got)
			assert.Len(t, h.changeLogs(t, d.ID), test.wantLogs)

			next := h.queue.Named(jobs.CheckDomainSSLJobName)
			if !test.wantNext {
				assert.Empty(t, next)
				return
			}
			require.Len(t, next, 1)
			assert.Equal(t, domainrepo.CheckPipelineDelay, next[0].Delay)
			assert.Equal(t, test.attempt+1, next[0].Job.(*jobs.CheckDomainSSLJob).Attempt)
		})
	}
}

func TestCheckDomainSSL_PipelineLookupFails(t *testing.T) {
	h := newHarness(t)
	d := databasetest.CreateDomain(t, h.db, "example.com", h.fx.SSLConfiguration.ID)
	h.gitlab.Close()

	err := h.env.CheckDomainSSL("abc", d.ID, 1).Handle(context.Background())
	assert.Error(t, err)
}

func TestRecheckSSL(t *testing.T) {
	h := newHarness(t)
	pending := "abc"
	done := "def"
	waiting := databasetest.CreateDomain(t, h.db, "waiting.com", h.fx.SSLConfiguration.ID, func(d *types.Domain) {
		d.CommitID = &pending
	})
	databasetest.CreateDomain(t, h.db, "issued.com", h.fx.SSLConfiguration.ID, func(d *types.Domain) {
		d.SSL = true
		d.CommitID = &done
	})
	databasetest.CreateDomain(t, h.db, "never.com", h.fx.SSLConfiguration.ID)

	require.NoError(t, h.env.RecheckSSL().Handle(context.Background()))

	checks := h.queue.Named(jobs.CheckDomainSSLJobName)
	require.Len(t, checks, 1)
	check := checks[0].Job.(*jobs.CheckDomainSSLJob)
	assert.Equal(t, waiting.ID, check.DomainID)
	assert.Equal(t, "abc", check.CommitID)
	assert.Zero(t, checks[0].Delay)
}
