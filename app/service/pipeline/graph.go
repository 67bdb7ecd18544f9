package pipeline

import (
	"context"
	"fmt"
	"scoutbot/app/client/tavily"
	"scoutbot/app/config"

	"github.com/samber/do"
)

// transitions is the fixed node order. Nodes also record the next node in
// State.Next so an interrupted run can be resumed from its last checkpoint.
var transitions = map[Node]Node{
	NodeRefine:   NodeSearch,
	NodeSearch:   NodeFinalize,
	NodeFinalize: NodeEnd,
}

type nodeFunc func(ctx context.Context, st *State) error

// Snapshot is the observable result of one node: which node ran and the
// transcript entries it appended.
type Snapshot struct {
	Node     Node
	Appended []Message
}

type Service struct {
	cfg   *config.Config
	store Store
	nodes map[Node]nodeFunc
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	store := do.MustInvoke[Store](di)
	tavilyClient := do.MustInvoke[*tavily.Client](di)

	var searcher Searcher
	switch cfg.Search.Mode {
	case config.SearchModeTool:
		searcher = toolSearcher{tool: tavily.NewSearchTool(tavilyClient)}
	default:
		searcher = directSearcher{client: tavilyClient}
	}

	refine := newRefiner(cfg)
	search := &searchExecutor{
		cfg:      cfg,
		searcher: searcher,
	}

	return &Service{
		cfg:   cfg,
		store: store,
		nodes: map[Node]nodeFunc{
			NodeRefine:   refine.run,
			NodeSearch:   search.run,
			NodeFinalize: finalize,
		},
	}, nil
}

// Run executes one full pipeline pass for the session: load or create the
// checkpoint, append the inbound human message, advance node by node in the
// fixed order, checkpoint after every completed node. A refine failure
// aborts the run without touching the checkpoint.
func (s *Service) Run(ctx context.Context, sessionID, text string) ([]Snapshot, error) {
	st, ok := s.store.Load(sessionID)
	if !ok {
		st = State{
			Messages:      []Message{},
			SearchResults: []SearchResult{},
		}
	}

	st.appendMessage(RoleHuman, text)
	st.Next = NodeRefine

	var snapshots []Snapshot

	for node := NodeRefine; node != NodeEnd; node = transitions[node] {
		before := len(st.Messages)

		if err := s.nodes[node](ctx, &st); err != nil {
			return nil, fmt.Errorf("%s node failed: %w", node, err)
		}

		s.store.Save(sessionID, st)

		snapshots = append(snapshots, Snapshot{
			Node:     node,
			Appended: append([]Message(nil), st.Messages[before:]...),
		})
	}

	return snapshots, nil
}
