package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/fanout"
	"chat-gateway-go/internal/metrics"
	"chat-gateway-go/internal/model"
)

const msgGeneralSearch = "error running general search"

// SearchService talks to the full-text search backend.
type SearchService struct {
	caller
	fanOut  bool
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewSearchService creates a SearchService. The metrics parameter is
// optional; pass nil to disable fan-out metrics.
func NewSearchService(up Upstream, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *SearchService {
	return &SearchService{
		caller:  caller{up: up, backend: config.BackendSearch},
		fanOut:  cfg.Search.FanOut,
		logger:  logger.With("component", "search_service"),
		metrics: m,
	}
}

func setInt(q url.Values, key string, v *int) {
	if v != nil {
		q.Set(key, strconv.Itoa(*v))
	}
}

func setString(q url.Values, key string, v *string) {
	if v != nil {
		q.Set(key, *v)
	}
}

func limitQuery(limit, offset int) url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}

// requestedKinds deduplicates kinds keeping first occurrence order. It
// returns nil when "all" was requested or nothing was.
func requestedKinds(kinds []model.IndexKind) []model.IndexKind {
	seen := make(map[model.IndexKind]bool, len(kinds))
	out := make([]model.IndexKind, 0, len(kinds))
	for _, k := range kinds {
		if k == model.IndexAll {
			return nil
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func generalQuery(in model.GeneralSearch) url.Values {
	q := limitQuery(in.Limit, in.Offset)
	setString(q, "q", in.Q)
	setInt(q, "channel_id", in.ChannelID)
	setInt(q, "thread_id", in.ThreadID)
	setInt(q, "author_id", in.AuthorID)
	return q
}

// General runs a composite search across index kinds. With fan-out
// disabled, or for at most one kind, it is a single call carrying a
// repeated index parameter; otherwise each kind is its own concurrent
// sub-call and the results are merged in the requested order.
func (s *SearchService) General(ctx context.Context, in model.GeneralSearch) (model.SearchResponse, error) {
	kinds := requestedKinds(in.Index)

	if !s.fanOut || len(kinds) < 2 {
		q := generalQuery(in)
		for _, k := range in.Index {
			q.Add("index", string(k))
		}
		return fetch[model.SearchResponse](ctx, s.caller, &client.Request{
			Method: http.MethodGet,
			Path:   "/",
			Query:  q,
		}, msgGeneralSearch)
	}

	calls := make([]fanout.Call[model.SearchResponse], 0, len(kinds))
	for _, k := range kinds {
		q := generalQuery(in)
		q.Set("index", string(k))
		req := &client.Request{
			Backend: s.backend,
			Method:  http.MethodGet,
			Path:    "/",
			Query:   q,
		}
		calls = append(calls, fanout.Call[model.SearchResponse]{
			Key: req.Backend + " " + req.Method + " " + req.Path + "?" + q.Encode(),
			Do: func(ctx context.Context) (model.SearchResponse, error) {
				var out model.SearchResponse
				_, err := s.up.Do(ctx, req, &out)
				return out, err
			},
		})
	}

	if s.metrics != nil {
		s.metrics.FanOutCalls.WithLabelValues("general_search").Observe(float64(len(calls)))
	}
	s.logger.Debug("fanning out general search", "kinds", len(kinds))

	parts, err := fanout.Run(ctx, calls)
	if err != nil {
		return model.SearchResponse{}, apierror.FromError(err, msgGeneralSearch)
	}

	merged := model.SearchResponse{Results: make([]model.SearchHit, 0)}
	for _, p := range parts {
		merged.Total += p.Total
		merged.Results = append(merged.Results, p.Results...)
	}
	return merged, nil
}

var threadLookupMessages = map[model.ThreadLookup]string{
	model.ThreadByID:       "error searching thread by id",
	model.ThreadByCategory: "error searching threads by category",
	model.ThreadByAuthor:   "error searching threads by author",
	model.ThreadByTag:      "error searching threads by tag",
	model.ThreadByKeyword:  "error searching threads by keyword",
}

// Threads searches threads by one attribute.
func (s *SearchService) Threads(ctx context.Context, by model.ThreadLookup, value string) (model.SearchResponse, error) {
	msg, ok := threadLookupMessages[by]
	if !ok {
		return model.SearchResponse{}, apierror.BadRequest("unknown thread search %q", string(by))
	}
	return fetch[model.SearchResponse](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/threads/"+string(by)+"/%s", value),
	}, msg)
}

// ThreadsByDateRange searches threads created between start and end.
func (s *SearchService) ThreadsByDateRange(ctx context.Context, start, end time.Time) (model.SearchResponse, error) {
	return fetch[model.SearchResponse](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/threads/daterange",
		Query: url.Values{
			"start_date": {start.Format(time.RFC3339)},
			"end_date":   {end.Format(time.RFC3339)},
		},
	}, "error searching threads by date range")
}

func (s *SearchService) Messages(ctx context.Context, in model.MessageSearch) (model.SearchResponse, error) {
	q := limitQuery(in.Limit, in.Offset)
	setString(q, "q", in.Q)
	setInt(q, "author_id", in.AuthorID)
	setInt(q, "thread_id", in.ThreadID)
	setInt(q, "message_id", in.MessageID)
	return fetch[model.SearchResponse](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/message/search_message",
		Query:  q,
	}, "error searching messages")
}

func (s *SearchService) Files(ctx context.Context, in model.FileSearch) (model.SearchResponse, error) {
	q := limitQuery(in.Limit, in.Offset)
	setString(q, "q", in.Q)
	setInt(q, "thread_id", in.ThreadID)
	setInt(q, "message_id", in.MessageID)
	setInt(q, "pages_min", in.PagesMin)
	setInt(q, "pages_max", in.PagesMax)
	return fetch[model.SearchResponse](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/files/search_files",
		Query:  q,
	}, "error searching files")
}
