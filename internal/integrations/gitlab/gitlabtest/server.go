// Package gitlabtest runs an in-memory repository API for tests
package gitlabtest

import (
	"domainkeeper/internal/integrations/gitlab"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	files     map[string]string
	commits   []gitlab.CommitRequest
	pipelines map[string]string
	lastIDs   map[string]string

	// FailCommits makes every commit request fail with a 500
	FailCommits bool
	// PipelineStatus is reported for every commit without an explicit status
	PipelineStatus string
}

// New starts a server and closes it when the test ends
func New(t *testing.T) *Server {
	s := &Server{
		files:          make(map[string]string),
		pipelines:      make(map[string]string),
		lastIDs:        make(map[string]string),
		PipelineStatus: "success",
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Client() gitlab.Client {
	return gitlab.NewClient(s.URL, "test-token", "ops/ssl")
}

func (s *Server) SetFile(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
	s.lastIDs[path] = uuid.NewString()
}

func (s *Server) File(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[path]
	return content, ok
}

func (s *Server) Commits() []gitlab.CommitRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gitlab.CommitRequest(nil), s.commits...)
}

func (s *Server) SetPipeline(sha, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipelines[sha] = status
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("PRIVATE-TOKEN") == "" {
		http.Error(w, `{"message":"401 Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	path := r.URL.EscapedPath()
	switch {
	case r.Method == http.MethodGet && strings.Contains(path, "/repository/files/"):
		_, escaped, _ := strings.Cut(path, "/repository/files/")
		filePath, err := url.PathUnescape(escaped)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.getFile(w, filePath, r.URL.Query().Get("ref"))
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/repository/commits"):
		s.commit(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/pipelines"):
		s.listPipelines(w, r.URL.Query().Get("sha"))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) getFile(w http.ResponseWriter, path, ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.files[path]
	if !ok {
		http.Error(w, `{"message":"404 File Not Found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, gitlab.File{
		FileName:     path[strings.LastIndex(path, "/")+1:],
		FilePath:     path,
		Encoding:     "base64",
		Content:      base64.StdEncoding.EncodeToString([]byte(content)),
		Ref:          ref,
		LastCommitID: s.lastIDs[path],
	})
}

func (s *Server) commit(w http.ResponseWriter, r *http.Request) {
	req := gitlab.CommitRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCommits {
		http.Error(w, `{"message":"500 Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	for _, action := range req.Actions {
		_, exists := s.files[action.FilePath]
		switch action.Action {
		case gitlab.ActionCreate:
			if exists {
				http.Error(w, `{"message":"A file with this name already exists"}`, http.StatusBadRequest)
				return
			}
		case gitlab.ActionUpdate:
			if !exists {
				http.Error(w, `{"message":"A file with this name doesn't exist"}`, http.StatusBadRequest)
				return
			}
			if action.LastCommitID != "" && action.LastCommitID != s.lastIDs[action.FilePath] {
				http.Error(w, `{"message":"You are attempting to update a file that has changed since you started editing it."}`, http.StatusBadRequest)
				return
			}
		default:
			http.Error(w, fmt.Sprintf(`{"message":"unsupported action %s"}`, action.Action), http.StatusBadRequest)
			return
		}
	}

	sha := strings.ReplaceAll(uuid.NewString(), "-", "")
	for _, action := range req.Actions {
		s.files[action.FilePath] = action.Content
		s.lastIDs[action.FilePath] = sha
	}
	s.commits = append(s.commits, req)

	writeJSON(w, http.StatusCreated, gitlab.Commit{ID: sha, ShortID: sha[:8], Title: req.CommitMessage})
}

func (s *Server) listPipelines(w http.ResponseWriter, sha string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.pipelines[sha]
	if !ok {
		status = s.PipelineStatus
	}
	pipelines := make([]gitlab.Pipeline, 0)
	if status != "" {
		pipelines = append(pipelines, gitlab.Pipeline{ID: 1, SHA: sha, Ref: "main", Status: status})
	}
	writeJSON(w, http.StatusOK, pipelines)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
