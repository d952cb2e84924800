package domainrepo_test

import (
	"context"
	"domainkeeper/internal/domainrepo"
	"domainkeeper/internal/integrations/gitlab"
	"domainkeeper/internal/integrations/gitlab/gitlabtest"
	"domainkeeper/internal/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sslDomain(name string) *types.Domain {
	return &types.Domain{
		Name: name,
		Type: types.DomainTypePrimary,
		Configuration: &types.DomainConfiguration{
			ID:        5,
			SSLServer: "ssl-eu-1",
		},
	}
}

func TestUpdateFile_AddCreatesMissingFile(t *testing.T) {
	server := gitlabtest.New(t)
	svc := domainrepo.NewService(server.Client(), "main")
	domain := sslDomain("Example.com")

	result := svc.UpdateFile(context.Background(), types.DomainActionAdd, domain,
		domainrepo.CommitMessage(types.DomainActionAdd, domain))

	require.NoError(t, result.Err)
	assert.Equal(t, domainrepo.OutcomeApplied, result.Outcome)
	assert.NotEmpty(t, result.CommitID)

	content, ok := server.File("ssl/ssl-eu-1.txt")
	require.True(t, ok)
	assert.Equal(t, "example.com\n", content)

	commits := server.Commits()
	require.Len(t, commits, 1)
	assert.Equal(t, "main", commits[0].Branch)
	assert.Equal(t, "add Example.com primary domain ssl-eu-1", commits[0].CommitMessage)
	assert.Equal(t, gitlab.ActionCreate, commits[0].Actions[0].Action)
}

func TestUpdateFile_AddAppendsToExistingFile(t *testing.T) {
	server := gitlabtest.New(t)
	server.SetFile("ssl/ssl-eu-1.txt", "first.com\nsecond.com\n")
	svc := domainrepo.NewService(server.Client(), "main")

	result := svc.UpdateFile(context.Background(), types.DomainActionAdd, sslDomain("third.com"), "add")
	require.Equal(t, domainrepo.OutcomeApplied, result.Outcome, "%v", result.Err)

	content, _ := server.File("ssl/ssl-eu-1.txt")
	assert.Equal(t, "first.com\nsecond.com\nthird.com\n", content)
	assert.Equal(t, gitlab.ActionUpdate, server.Commits()[0].Actions[0].Action)
	assert.NotEmpty(t, server.Commits()[0].Actions[0].LastCommitID)
}

func TestUpdateFile_AddAlreadyPresent(t *testing.T) {
	server := gitlabtest.New(t)
	server.SetFile("ssl/ssl-eu-1.txt", "example.com\n")
	svc := domainrepo.NewService(server.Client(), "main")

	result := svc.UpdateFile(context.Background(), types.DomainActionAdd, sslDomain("EXAMPLE.com"), "add")

	assert.Equal(t, domainrepo.OutcomeAlreadyPresent, result.Outcome)
	assert.Empty(t, result.CommitID)
	assert.Empty(t, server.Commits())
}

func TestUpdateFile_Remove(t *testing.T) {
	server := gitlabtest.New(t)
	server.SetFile("ssl/ssl-eu-1.txt", "first.com\nexample.com\n\nlast.com\n")
	svc := domainrepo.NewService(server.Client(), "main")

	result := svc.UpdateFile(context.Background(), types.DomainActionRemove, sslDomain("example.com"), "remove")
	require.Equal(t, domainrepo.OutcomeApplied, result.Outcome, "%v", result.Err)

	content, _ := server.File("ssl/ssl-eu-1.txt")
	assert.Equal(t, "first.com\nlast.com\n", content)
}

func TestUpdateFile_RemoveNotPresent(t *testing.T) {
	server := gitlabtest.New(t)
	svc := domainrepo.NewService(server.Client(), "main")

	result := svc.UpdateFile(context.Background(), types.DomainActionRemove, sslDomain("example.com"), "remove")
	assert.Equal(t, domainrepo.OutcomeNotPresent, result.Outcome)

	server.SetFile("ssl/ssl-eu-1.txt", "other.com\n")
	result = svc.UpdateFile(context.Background(), types.DomainActionRemove, sslDomain("example.com"), "remove")
	assert.Equal(t, domainrepo.OutcomeNotPresent, result.Outcome)
	assert.Empty(t, server.Commits())
}

func TestUpdateFile_Failures(t *testing.T) {
	server := gitlabtest.New(t)
	server.FailCommits = true
	svc := domainrepo.NewService(server.Client(), "main")

	result := svc.UpdateFile(context.Background(), types.DomainActionAdd, sslDomain("example.com"), "add")
	assert.Equal(t, domainrepo.OutcomeFailed, result.Outcome)
	assert.Error(t, result.Err)

	noServer := &types.Domain{Name: "example.com", Configuration: &types.DomainConfiguration{}}
	result = svc.UpdateFile(context.Background(), types.DomainActionAdd, noServer, "add")
	assert.Equal(t, domainrepo.OutcomeFailed, result.Outcome)
	assert.ErrorIs(t, result.Err, domainrepo.ErrNoSSLServer)
}

func TestUpdateFile_Unreachable(t *testing.T) {
	server := gitlabtest.New(t)
	client := server.Client()
	server.Close()

	svc := domainrepo.NewService(client, "main")
	result := svc.UpdateFile(context.Background(), types.DomainActionAdd, sslDomain("example.com"), "add")
	assert.Equal(t, domainrepo.OutcomeFailed, result.Outcome)
	assert.Error(t, result.Err)
}

func TestPipelineStatus(t *testing.T) {
	server := gitlabtest.New(t)
	server.SetPipeline("abc", "running")
	server.SetPipeline("def", "")
	svc := domainrepo.NewService(server.Client(), "main")

	status, err := svc.PipelineStatus(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, domainrepo.PipelineRunning, status)
	assert.False(t, status.IsFinal())

	status, err = svc.PipelineStatus(context.Background(), "def")
	require.NoError(t, err)
	assert.Equal(t, domainrepo.PipelineUnknown, status)

	status, err = svc.PipelineStatus(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, domainrepo.PipelineSuccess, status)
	assert.True(t, status.IsFinal())
}

func TestDomainList(t *testing.T) {
	list := domainrepo.ParseDomainList(" a.com \r\n\nb.com")
	assert.Equal(t, domainrepo.DomainList{"a.com", "b.com"}, list)
	assert.True(t, list.Contains("A.COM"))
	assert.Equal(t, "b.com\n", list.Remove("a.com").String())
	assert.Equal(t, "", domainrepo.DomainList{}.String())
}
