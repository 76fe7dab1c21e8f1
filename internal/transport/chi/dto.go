package chi

import (
	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/usecase/evaluate"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeBadRequest    = "bad_request"
	codeNotFound      = "not_found"
	codeUnavailable   = "model_unavailable"
	codeInternalError = "internal_error"
)

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Results []domain.Hit `json:"results"`
}

// analyzeRequest accepts the community identifier under both key spellings
// clients use. Temperature is a pointer so an explicit 0 is honored.
type analyzeRequest struct {
	Draft            string   `json:"draft"`
	CommunityID      string   `json:"community_id"`
	CommunityIDAlias string   `json:"communityId"`
	TopK             int      `json:"top_k"`
	Temperature      *float32 `json:"temperature"`
	MaxTokens        int      `json:"max_tokens"`
}

type analyzeResponse struct {
	*evaluate.Analysis
	CommunityID string `json:"community_id,omitempty"`
}

type ingestRequest struct {
	GlobPattern string `json:"glob_pattern"`
}

type draftRequest struct {
	Draft string `json:"draft"`
}

type draftCreatedResponse struct {
	Token string `json:"token"`
}

type draftResponse struct {
	Draft string `json:"draft"`
}

type versionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type personaResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type healthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	Passages int               `json:"passages"`
}
