package directory

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"memberdir/importer"
	"memberdir/member"

	"github.com/google/uuid"
)

type State int

const (
	NotLoaded State = iota
	Loaded
)

func (s State) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// ErrLoadInProgress is returned when a load is attempted while another one
// is still parsing. Intake stays disabled until the first load completes.
var ErrLoadInProgress = errors.New("a file is already being loaded")

// Loader parses one user-selected file into records.
type Loader interface {
	Load(ctx context.Context, filename, mimeType string, r io.Reader) ([]importer.Record, error)
}

// Session holds the member collection and the live query for one viewer.
// Once Loaded it never returns to NotLoaded; a later successful load only
// replaces the collection.
type Session struct {
	loader Loader
	mapper *importer.MemberMapper
	now    func() time.Time

	mu         sync.RWMutex
	state      State
	collection *member.Collection
	query      string
	busy       bool
	lastFile   string
	lastError  string
}

// Snapshot is a consistent copy of the session used for rendering.
type Snapshot struct {
	State      State
	Busy       bool
	LastFile   string
	LastError  string
	Query      string
	Collection *member.Collection
	Results    []member.Member
}

func NewSession(loader Loader, mapper *importer.MemberMapper) *Session {
	return &Session{
		loader: loader,
		mapper: mapper,
		now:    time.Now,
	}
}

// Load parses the file and, when it yields at least one row, replaces the
// collection. On failure the previous state and collection are kept and the
// user-facing message is recorded.
func (s *Session) Load(ctx context.Context, filename, mimeType string, r io.Reader) (*member.Collection, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrLoadInProgress
	}
	s.busy = true
	s.lastFile = filename
	s.lastError = ""
	s.mu.Unlock()

	records, err := s.loader.Load(ctx, filename, mimeType, r)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.lastError = importer.UserMessage(err)
		return nil, err
	}

	result := importer.Normalize(records, s.mapper)
	collection := &member.Collection{
		ID:          uuid.NewString(),
		SourceFile:  filename,
		LoadedAt:    s.now(),
		RowsRead:    result.RowsRead,
		RowsSkipped: result.RowsSkipped,
		Members:     result.Members,
	}
	s.collection = collection
	s.state = Loaded
	return collection, nil
}

// Search stores the query and returns the recomputed matches.
func (s *Session) Search(query string) []member.Member {
	s.mu.Lock()
	s.query = query
	collection := s.collection
	s.mu.Unlock()

	if collection == nil {
		return Filter(nil, query)
	}
	return Filter(collection.Members, query)
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	snapshot := Snapshot{
		State:      s.state,
		Busy:       s.busy,
		LastFile:   s.lastFile,
		LastError:  s.lastError,
		Query:      s.query,
		Collection: s.collection,
	}
	s.mu.RUnlock()

	var members []member.Member
	if snapshot.Collection != nil {
		members = snapshot.Collection.Members
	}
	snapshot.Results = Filter(members, snapshot.Query)
	return snapshot
}
