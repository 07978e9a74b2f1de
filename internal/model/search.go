package model

// IndexKind names a searchable resource kind.
type IndexKind string

const (
	IndexAll      IndexKind = "all"
	IndexMessages IndexKind = "messages"
	IndexThreads  IndexKind = "threads"
	IndexFiles    IndexKind = "files"
	IndexChannels IndexKind = "channels"
)

// Valid reports whether k is a known index kind.
func (k IndexKind) Valid() bool {
	switch k {
	case IndexAll, IndexMessages, IndexThreads, IndexFiles, IndexChannels:
		return true
	}
	return false
}

type SearchHit struct {
	Index  string         `json:"index" validate:"required"`
	ID     string         `json:"id" validate:"required"`
	Source map[string]any `json:"source"`
}

type SearchResponse struct {
	Total   int         `json:"total"`
	Results []SearchHit `json:"results" validate:"dive"`
}

// GeneralSearch holds the filters of a composite search. Nil filters are
// not forwarded.
type GeneralSearch struct {
	Q         *string
	ChannelID *int
	ThreadID  *int
	AuthorID  *int
	Index     []IndexKind
	Limit     int
	Offset    int
}

type MessageSearch struct {
	Q         *string
	AuthorID  *int
	ThreadID  *int
	MessageID *int
	Limit     int
	Offset    int
}

type FileSearch struct {
	Q         *string
	ThreadID  *int
	MessageID *int
	PagesMin  *int
	PagesMax  *int
	Limit     int
	Offset    int
}

// ThreadLookup is the attribute a thread search is keyed on.
type ThreadLookup string

const (
	ThreadByID       ThreadLookup = "id"
	ThreadByCategory ThreadLookup = "category"
	ThreadByAuthor   ThreadLookup = "author"
	ThreadByTag      ThreadLookup = "tag"
	ThreadByKeyword  ThreadLookup = "keyword"
)
