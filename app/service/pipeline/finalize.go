package pipeline

import "context"

// finalize normalizes the persisted fields and marks the run as done,
// keeping the terminal state distinct from "search finished".
func finalize(_ context.Context, st *State) error {
	if st.Messages == nil {
		st.Messages = []Message{}
	}
	if st.SearchResults == nil {
		st.SearchResults = []SearchResult{}
	}

	st.Next = NodeEnd

	return nil
}
