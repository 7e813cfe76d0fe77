package pipe

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// Envelope is the wire form of every message.
type Envelope struct {
	ID     string             `json:"id"`
	Type   domain.MessageType `json:"type"`
	Detail json.RawMessage    `json:"detail,omitempty"`
}

// SearchDetail is the detail of RUN_SEARCH.
// Missing max_gap, case_insensitive and whole_word use the configured
// defaults.
type SearchDetail struct {
	Text            string `json:"text,omitempty"`
	Path            string `json:"path,omitempty"`
	Word1           string `json:"word1"`
	Word2           string `json:"word2"`
	MaxGap          *int   `json:"max_gap,omitempty"`
	MaxMatches      int    `json:"max_matches,omitempty"`
	CaseInsensitive *bool  `json:"case_insensitive,omitempty"`
	WholeWord       *bool  `json:"whole_word,omitempty"`
	GapUnit         string `json:"gap_unit,omitempty"`
	Raw             bool   `json:"raw,omitempty"`
}

// MatchDetail is one match in SEARCH_COMPLETE.
type MatchDetail struct {
	Start        int    `json:"start"`
	Length       int    `json:"length"`
	Gap          int    `json:"gap"`
	Text         string `json:"text"`
	Snippet      string `json:"snippet,omitempty"`
	SnippetStart int    `json:"snippet_start,omitempty"`
}

// CompleteDetail is the detail of SEARCH_COMPLETE.
type CompleteDetail struct {
	RequestID string        `json:"request_id"`
	Matches   []MatchDetail `json:"matches"`
	Count     int           `json:"count"`
	Truncated bool          `json:"truncated"`
	ElapsedMS float64       `json:"elapsed_ms"`
}

// ErrorDetail is the detail of SEARCH_ERROR and WASM_ERROR.
type ErrorDetail struct {
	RequestID string `json:"request_id,omitempty"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
}

// Decode parses one line into a message.
// On failure the returned envelope ID is still set when it could be read.
func Decode(line []byte) (domain.Message, string, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	switch env.Type {
	case domain.MessageInit:
		return domain.Init{ID: env.ID}, env.ID, nil
	case domain.MessageInitialized:
		return domain.Initialized{ID: env.ID}, env.ID, nil
	case domain.MessageEngineError:
		var d ErrorDetail
		if err := decodeDetail(env.Detail, &d); err != nil {
			return nil, env.ID, err
		}
		return domain.EngineError{ID: env.ID, Message: d.Message}, env.ID, nil
	case domain.MessageRunSearch:
		var d SearchDetail
		if err := decodeDetail(env.Detail, &d); err != nil {
			return nil, env.ID, err
		}
		return domain.RunSearch{ID: env.ID, Request: d.request()}, env.ID, nil
	case domain.MessageSearchComplete:
		var d CompleteDetail
		if err := decodeDetail(env.Detail, &d); err != nil {
			return nil, env.ID, err
		}
		return d.message(env.ID), env.ID, nil
	case domain.MessageSearchError:
		var d ErrorDetail
		if err := decodeDetail(env.Detail, &d); err != nil {
			return nil, env.ID, err
		}
		return domain.SearchError{ID: env.ID, RequestID: d.RequestID, Message: d.Message, Code: d.Code}, env.ID, nil
	case "":
		return nil, env.ID, fmt.Errorf("%w: missing message type", domain.ErrInvalidInput)
	default:
		return nil, env.ID, fmt.Errorf("%w: message type %q", domain.ErrUnsupportedType, env.Type)
	}
}

// Encode renders a message as one JSON line without the trailing newline.
func Encode(msg domain.Message) ([]byte, error) {
	var detail any
	switch m := msg.(type) {
	case domain.Init, domain.Initialized:
	case domain.EngineError:
		detail = ErrorDetail{Message: m.Message}
	case domain.RunSearch:
		detail = searchDetail(m.Request)
	case domain.SearchComplete:
		detail = completeDetail(m)
	case domain.SearchError:
		detail = ErrorDetail{RequestID: m.RequestID, Message: m.Message, Code: m.Code}
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedType, msg)
	}

	env := Envelope{ID: msg.MessageID(), Type: msg.Type()}
	if detail != nil {
		raw, err := json.Marshal(detail)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", msg.Type(), err)
		}
		env.Detail = raw
	}
	return json.Marshal(env)
}

func decodeDetail(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: detail: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func (d SearchDetail) request() domain.SearchRequest {
	req := domain.SearchRequest{
		Text:            d.Text,
		Path:            d.Path,
		Word1:           d.Word1,
		Word2:           d.Word2,
		MaxMatches: d.MaxMatches,
		GapUnit:    domain.GapUnit(d.GapUnit),
		Raw:        d.Raw,
	}
	if d.MaxGap != nil {
		req.MaxGap = *d.MaxGap
		req.HasMaxGap = true
	}
	if d.CaseInsensitive != nil {
		req.CaseInsensitive = *d.CaseInsensitive
		req.HasCaseInsensitive = true
	}
	if d.WholeWord != nil {
		req.WholeWord = *d.WholeWord
		req.HasWholeWord = true
	}
	return req
}

func searchDetail(req domain.SearchRequest) SearchDetail {
	d := SearchDetail{
		Text:            req.Text,
		Path:            req.Path,
		Word1:           req.Word1,
		Word2:           req.Word2,
		MaxMatches: req.MaxMatches,
		GapUnit:    string(req.GapUnit),
		Raw:        req.Raw,
	}
	if req.HasMaxGap {
		gap := req.MaxGap
		d.MaxGap = &gap
	}
	if req.HasCaseInsensitive {
		fold := req.CaseInsensitive
		d.CaseInsensitive = &fold
	}
	if req.HasWholeWord {
		whole := req.WholeWord
		d.WholeWord = &whole
	}
	return d
}

func completeDetail(m domain.SearchComplete) CompleteDetail {
	matches := make([]MatchDetail, len(m.Matches))
	for i, v := range m.Matches {
		matches[i] = MatchDetail{
			Start:        v.Start,
			Length:       v.Length,
			Gap:          v.Gap,
			Text:         v.Text,
			Snippet:      v.Snippet,
			SnippetStart: v.SnippetStart,
		}
	}
	return CompleteDetail{
		RequestID: m.RequestID,
		Matches:   matches,
		Count:     len(matches),
		Truncated: m.Truncated,
		ElapsedMS: float64(m.Elapsed.Microseconds()) / 1000,
	}
}

func (d CompleteDetail) message(id string) domain.SearchComplete {
	views := make([]domain.MatchView, len(d.Matches))
	for i, m := range d.Matches {
		views[i] = domain.MatchView{
			Match:        domain.Match{Start: m.Start, Length: m.Length, Gap: m.Gap},
			Text:         m.Text,
			Snippet:      m.Snippet,
			SnippetStart: m.SnippetStart,
		}
	}
	return domain.SearchComplete{
		ID:        id,
		RequestID: d.RequestID,
		Matches:   views,
		Truncated: d.Truncated,
		Elapsed:   time.Duration(d.ElapsedMS * float64(time.Millisecond)),
	}
}
