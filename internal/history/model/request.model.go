package model

type SaveVersionRequest struct {
	DocID    string         `json:"document_id"`
	Content  string         `json:"content"`
	AuthorID string         `json:"author_id"`
	Action   Action         `json:"action"`
	Extra    map[string]any `json:"extra"`
}

type RestoreVersionRequest struct {
	DocID     string `json:"document_id"`
	VersionID string `json:"version_id"`
	AuthorID  string `json:"author_id"`
}

type CleanupRequest struct {
	DocID     string `json:"document_id"`
	KeepCount *int   `json:"keep_count"` // nil uses the configured default
}

type CleanupResponse struct {
	DocID   string `json:"document_id"`
	Removed int    `json:"removed"`
}
