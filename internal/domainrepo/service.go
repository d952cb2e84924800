package domainrepo

import (
	"context"
	"domainkeeper/internal/integrations/gitlab"
	"domainkeeper/internal/types"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// CheckPipelineDelay is how long certificate issuance is given after a commit before
// its pipeline is checked
const CheckPipelineDelay = 5 * time.Minute

var ErrNoSSLServer = errors.New("domain configuration has no ssl server")

type PipelineStatus string

const (
	PipelineUnknown  PipelineStatus = ""
	PipelineCreated  PipelineStatus = "created"
	PipelinePending  PipelineStatus = "pending"
	PipelineRunning  PipelineStatus = "running"
	PipelineSuccess  PipelineStatus = "success"
	PipelineFailed   PipelineStatus = "failed"
	PipelineCanceled PipelineStatus = "canceled"
	PipelineSkipped  PipelineStatus = "skipped"
)

// IsFinal reports whether the pipeline will not change status anymore
func (s PipelineStatus) IsFinal() bool {
	switch s {
	case PipelineSuccess, PipelineFailed, PipelineCanceled, PipelineSkipped:
		return true
	}
	return false
}

// Service keeps, for every SSL server, a version controlled list of the domains it
// must hold certificates for
type Service interface {
	UpdateFile(ctx context.Context, action types.DomainAction, domain *types.Domain, message string) Result
	PipelineStatus(ctx context.Context, commitID string) (PipelineStatus, error)
}

type service struct {
	client gitlab.Client
	branch string
}

func NewService(client gitlab.Client, branch string) Service {
	return &service{client: client, branch: branch}
}

// FilePath is the repository file listing the domains of an SSL server
func FilePath(server string) string {
	return fmt.Sprintf("ssl/%s.txt", server)
}

// CommitMessage describes a list change, e.g. "add example.com primary domain ssl-eu-1"
func CommitMessage(action types.DomainAction, domain *types.Domain) string {
	return fmt.Sprintf("%s %s %s domain %s", action, domain.Name, domain.Type, domain.SSLServer())
}

func (s *service) UpdateFile(ctx context.Context, action types.DomainAction, domain *types.Domain, message string) Result {
	if !action.IsValid() {
		return Failed(fmt.Errorf("unknown action: %s", action))
	}

	server := domain.SSLServer()
	if server == "" {
		return Failed(ErrNoSSLServer)
	}

	path := FilePath(server)
	list, lastCommitID, exists, err := s.read(ctx, path)
	if err != nil {
		return Failed(err)
	}

	switch action {
	case types.DomainActionAdd:
		if list.Contains(domain.Name) {
			return AlreadyPresent()
		}
		list = list.Add(domain.Name)
	case types.DomainActionRemove:
		if !list.Contains(domain.Name) {
			return NotPresent()
		}
		list = list.Remove(domain.Name)
	}

	commitAction := gitlab.CommitAction{
		Action:       gitlab.ActionUpdate,
		FilePath:     path,
		Content:      list.String(),
		LastCommitID: lastCommitID,
	}
	if !exists {
		commitAction.Action = gitlab.ActionCreate
		commitAction.LastCommitID = ""
	}

	commit, err := s.client.Commit(ctx, gitlab.CommitRequest{
		Branch:        s.branch,
		CommitMessage: message,
		Actions:       []gitlab.CommitAction{commitAction},
	})
	if err != nil {
		return Failed(fmt.Errorf("commit %s: %w", path, err))
	}

	return Applied(commit.ID)
}

func (s *service) PipelineStatus(ctx context.Context, commitID string) (PipelineStatus, error) {
	pipelines, err := s.client.PipelinesForCommit(ctx, commitID)
	if err != nil {
		return PipelineUnknown, err
	}
	if len(pipelines) == 0 {
		return PipelineUnknown, nil
	}

	sort.Slice(pipelines, func(i, j int) bool {
		return pipelines[i].ID > pipelines[j].ID
	})
	return PipelineStatus(pipelines[0].Status), nil
}

func (s *service) read(ctx context.Context, path string) (DomainList, string, bool, error) {
	f, err := s.client.GetFile(ctx, path, s.branch)
	if errors.Is(err, gitlab.ErrFileNotFound) {
		return DomainList{}, "", false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("read %s: %w", path, err)
	}

	content, err := f.Decode()
	if err != nil {
		return nil, "", false, fmt.Errorf("decode %s: %w", path, err)
	}
	return ParseDomainList(content), f.LastCommitID, true, nil
}

// DomainList is the content of a server file, one domain per line
type DomainList []string

func ParseDomainList(content string) DomainList {
	list := DomainList{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		list = append(list, line)
	}
	return list
}

func (l DomainList) Contains(name string) bool {
	for _, next := range l {
		if strings.EqualFold(next, name) {
			return true
		}
	}
	return false
}

func (l DomainList) Add(name string) DomainList {
	return append(l, strings.ToLower(name))
}

func (l DomainList) Remove(name string) DomainList {
	result := make(DomainList, 0, len(l))
	for _, next := range l {
		if !strings.EqualFold(next, name) {
			result = append(result, next)
		}
	}
	return result
}

func (l DomainList) String() string {
	if len(l) == 0 {
		return ""
	}
	return strings.Join(l, "\n") + "\n"
}
