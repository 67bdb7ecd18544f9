package pipeline

type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content,omitempty"`
}

type Node int

const (
	NodeRefine Node = iota
	NodeSearch
	NodeFinalize
	NodeEnd
)

func (n Node) String() string {
	switch n {
	case NodeRefine:
		return "refine"
	case NodeSearch:
		return "search"
	case NodeFinalize:
		return "finalize"
	case NodeEnd:
		return "end"
	default:
		return "unknown"
	}
}

// State is the conversation record threaded through the pipeline nodes and
// checkpointed per session. Messages are append-only within a run, Next is
// the transient routing hint persisted for resumability.
type State struct {
	Messages        []Message      `json:"messages"`
	StructuredQuery string         `json:"structured_query"`
	SearchResults   []SearchResult `json:"search_results"`
	Next            Node           `json:"next"`
}

func (s *State) appendMessage(role Role, content string) {
	s.Messages = append(s.Messages, Message{
		Role:    role,
		Content: content,
	})
}

func (s State) lastHumanContent() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleHuman {
			return s.Messages[i].Content
		}
	}

	return ""
}

func (s State) Clone() State {
	result := s
	if s.Messages != nil {
		result.Messages = append([]Message{}, s.Messages...)
	}
	if s.SearchResults != nil {
		result.SearchResults = append([]SearchResult{}, s.SearchResults...)
	}

	return result
}

// Store is the checkpoint backend. Load returns a copy of the last saved
// state for the session, Save replaces it. Implementations must keep entries
// of distinct sessions fully isolated.
type Store interface {
	Load(sessionID string) (State, bool)
	Save(sessionID string, st State)
}
