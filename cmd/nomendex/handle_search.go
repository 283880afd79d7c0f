package main

import (
	"html/template"
	"net/http"

	"github.com/firstloop/nomendex"
)

// previewMatches is how many content matches are sent per note.
const previewMatches = 3

// matchResponse is a single match as sent to the UI. Start and End are byte offsets into Text.
type matchResponse struct {
	Line  int           `json:"line"`
	Start int           `json:"start"`
	End   int           `json:"end"`
	Text  string        `json:"text"`
	HTML  template.HTML `json:"html"`
}

type searchResultResponse struct {
	FileName      string          `json:"fileName"`
	FolderPath    string          `json:"folderPath,omitempty"`
	FolderTitle   string          `json:"folderTitle,omitempty"`
	TitleMatches  []matchResponse `json:"titleMatches"`
	Matches       []matchResponse `json:"matches"`
	HiddenMatches int             `json:"hiddenMatches"`
}

// handleSearchNotes searches note names and content for the q parameter.
func (s *Server) handleSearchNotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results := s.notes.SearchNotes(query)

	response := make([]searchResultResponse, 0, len(results))
	for _, result := range results {
		response = append(response, newSearchResultResponse(result))
	}

	s.respondWithJSON(w, response, http.StatusOK)
}

func newSearchResultResponse(result nomendex.SearchResult) searchResultResponse {
	preview, hidden := result.Preview(previewMatches)

	response := searchResultResponse{
		FileName:      result.ID,
		FolderPath:    result.FolderPath,
		TitleMatches:  newMatchResponses(result.TitleMatches()),
		Matches:       newMatchResponses(preview),
		HiddenMatches: hidden,
	}
	if result.FolderPath != "" {
		response.FolderTitle = nomendex.TitleCase(result.FolderPath)
	}

	return response
}

func newMatchResponses(matches []nomendex.MatchSpan) []matchResponse {
	responses := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		responses = append(responses, matchResponse{
			Line:  m.Line,
			Start: m.Start,
			End:   m.End,
			Text:  m.Text,
			HTML:  nomendex.HighlightHTML(m.Text, []nomendex.Span{m.Span()}),
		})
	}
	return responses
}

// handleRefreshNotes rescans the notes directory right away.
func (s *Server) handleRefreshNotes(w http.ResponseWriter, _ *http.Request) {
	s.notes.ReloadCaches()
	s.respondWithJSON(w, map[string]int{"notes": len(s.notes.Notes())}, http.StatusOK)
}
