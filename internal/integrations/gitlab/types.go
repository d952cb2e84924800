package gitlab

type (
	File struct {
		FileName     string `json:"file_name"`
		FilePath     string `json:"file_path"`
		Encoding     string `json:"encoding"`
		Content      string `json:"content"`
		Ref          string `json:"ref"`
		CommitID     string `json:"commit_id"`
		LastCommitID string `json:"last_commit_id"`
	}

	CommitAction struct {
		Action       string `json:"action"`
		FilePath     string `json:"file_path"`
		Content      string `json:"content,omitempty"`
		LastCommitID string `json:"last_commit_id,omitempty"`
	}

	CommitRequest struct {
		Branch        string         `json:"branch"`
		CommitMessage string         `json:"commit_message"`
		Actions       []CommitAction `json:"actions"`
	}

	Commit struct {
		ID      string `json:"id"`
		ShortID string `json:"short_id"`
		Title   string `json:"title"`
	}

	Pipeline struct {
		ID     int    `json:"id"`
		SHA    string `json:"sha"`
		Ref    string `json:"ref"`
		Status string `json:"status"`
	}
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
)
