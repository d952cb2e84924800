package gitlab

import (
	"context"
	"domainkeeper/internal/integrations"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

var ErrFileNotFound = errors.New("file not found")

type Client interface {
	GetFile(ctx context.Context, path, ref string) (*File, error)
	Commit(ctx context.Context, req CommitRequest) (*Commit, error)
	PipelinesForCommit(ctx context.Context, sha string) ([]Pipeline, error)
}

type client struct {
	httpClient integrations.HttpClient
	project    string
}

// NewClient talks to the repository API of one project. project is the numeric id
// or the full path ("group/name") of the project.
func NewClient(baseUrl, token, project string) Client {
	return &client{
		httpClient: integrations.NewHttpClient(baseUrl+"/api/v4",
			integrations.WithHeader("PRIVATE-TOKEN", token)),
		project: url.PathEscape(project),
	}
}

func (c *client) GetFile(ctx context.Context, path, ref string) (*File, error) {
	f := &File{}
	u := fmt.Sprintf("/projects/%s/repository/files/%s?ref=%s", c.project, url.PathEscape(path), url.QueryEscape(ref))
	err := c.httpClient.Do(ctx, http.MethodGet, u, nil, f)
	if err != nil {
		var se *integrations.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

func (c *client) Commit(ctx context.Context, req CommitRequest) (*Commit, error) {
	commit := &Commit{}
	u := fmt.Sprintf("/projects/%s/repository/commits", c.project)
	if err := c.httpClient.Do(ctx, http.MethodPost, u, req, commit); err != nil {
		return nil, err
	}
	return commit, nil
}

func (c *client) PipelinesForCommit(ctx context.Context, sha string) ([]Pipeline, error) {
	pipelines := make([]Pipeline, 0)
	u := fmt.Sprintf("/projects/%s/pipelines?sha=%s", c.project, url.QueryEscape(sha))
	if err := c.httpClient.Do(ctx, http.MethodGet, u, nil, &pipelines); err != nil {
		return nil, err
	}
	return pipelines, nil
}

// Decode returns the plain text content of f
func (f *File) Decode() (string, error) {
	if f.Encoding != "base64" {
		return f.Content, nil
	}
	b, err := base64.StdEncoding.DecodeString(f.Content)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
