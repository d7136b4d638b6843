package directory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"memberdir/config"
	"memberdir/importer"
)

func newTestSession() *Session {
	cfg := config.Default()
	return NewSession(importer.NewIntake(cfg.Intake), importer.NewMemberMapper(cfg.Columns))
}

const sampleCSV = "الاسم الرباعي,رقم لهوية,صفة المشاركة\n" +
	"سارة أحمد,123,\n" +
	",456,\n" +
	"Omar,789,منسق\n"

func TestSession_LoadTransitionsToLoaded(t *testing.T) {
	t.Parallel()

	session := newTestSession()
	if session.State() != NotLoaded {
		t.Fatalf("expected initial state not_loaded, got %s", session.State())
	}

	collection, err := session.Load(context.Background(), "members.csv", "text/csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session.State() != Loaded {
		t.Fatalf("expected loaded state, got %s", session.State())
	}
	if collection.Len() != 2 || collection.RowsRead != 3 || collection.RowsSkipped != 1 {
		t.Fatalf("unexpected collection: %+v", collection)
	}
	if collection.ID == "" || collection.SourceFile != "members.csv" {
		t.Fatalf("expected collection metadata, got id=%q file=%q", collection.ID, collection.SourceFile)
	}
	if got := strings.Join(ids(collection.Members), ","); got != "member-0,member-2" {
		t.Fatalf("unexpected ids: %s", got)
	}
}

func TestSession_FailedLoadKeepsPreviousCollection(t *testing.T) {
	t.Parallel()

	session := newTestSession()
	first, err := session.Load(context.Background(), "members.csv", "", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("first load: %v", err)
	}

	_, err = session.Load(context.Background(), "photo.png", "image/png", strings.NewReader("\x89PNG"))
	if !errors.Is(err, importer.ErrInvalidFileType) {
		t.Fatalf("expected invalid file type, got %v", err)
	}

	snapshot := session.Snapshot()
	if snapshot.State != Loaded {
		t.Fatalf("expected to stay loaded, got %s", snapshot.State)
	}
	if snapshot.Collection != first {
		t.Fatalf("expected previous collection to be kept")
	}
	if snapshot.LastError != "Please upload a valid CSV file." {
		t.Fatalf("unexpected error text: %q", snapshot.LastError)
	}
	if snapshot.LastFile != "photo.png" {
		t.Fatalf("unexpected last file: %q", snapshot.LastFile)
	}
}

func TestSession_EmptyFileStaysNotLoaded(t *testing.T) {
	t.Parallel()

	session := newTestSession()
	_, err := session.Load(context.Background(), "members.csv", "", strings.NewReader("الاسم الرباعي\n"))
	if !errors.Is(err, importer.ErrEmptyFile) {
		t.Fatalf("expected empty file error, got %v", err)
	}
	if session.State() != NotLoaded {
		t.Fatalf("expected not_loaded after empty file, got %s", session.State())
	}
}

func TestSession_ReloadReplacesCollection(t *testing.T) {
	t.Parallel()

	session := newTestSession()
	first, err := session.Load(context.Background(), "members.csv", "", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := session.Load(context.Background(), "members.csv", "", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first == second || first.ID == second.ID {
		t.Fatalf("expected an independent collection per load")
	}
	if session.Snapshot().Collection != second {
		t.Fatalf("expected latest collection to be active")
	}
}

func TestSession_SearchKeepsQueryAcrossLoads(t *testing.T) {
	t.Parallel()

	session := newTestSession()
	if got := session.Search("omar"); len(got) != 0 {
		t.Fatalf("expected no results before load, got %d", len(got))
	}

	if _, err := session.Load(context.Background(), "members.csv", "", strings.NewReader(sampleCSV)); err != nil {
		t.Fatalf("load: %v", err)
	}
	snapshot := session.Snapshot()
	if snapshot.Query != "omar" {
		t.Fatalf("expected query to survive load, got %q", snapshot.Query)
	}
	if len(snapshot.Results) != 1 || snapshot.Results[0].ID != "member-2" {
		t.Fatalf("unexpected results: %+v", snapshot.Results)
	}
	if got := session.Search("   "); len(got) != 0 {
		t.Fatalf("expected blank query to show nothing, got %d", len(got))
	}
}

type gatedLoader struct {
	started chan struct{}
	release chan struct{}
}

func (l gatedLoader) Load(ctx context.Context, filename, mimeType string, r io.Reader) ([]importer.Record, error) {
	close(l.started)
	<-l.release
	return []importer.Record{{Values: map[string]string{}}}, nil
}

func TestSession_RejectsConcurrentLoad(t *testing.T) {
	t.Parallel()

	loader := gatedLoader{started: make(chan struct{}), release: make(chan struct{})}
	session := NewSession(loader, importer.NewMemberMapper(config.DefaultColumns()))

	done := make(chan error, 1)
	go func() {
		_, err := session.Load(context.Background(), "first.csv", "", strings.NewReader(""))
		done <- err
	}()
	<-loader.started

	if !session.Snapshot().Busy {
		t.Fatalf("expected session to report busy while parsing")
	}
	if _, err := session.Load(context.Background(), "second.csv", "", strings.NewReader("")); !errors.Is(err, ErrLoadInProgress) {
		t.Fatalf("expected ErrLoadInProgress, got %v", err)
	}

	close(loader.release)
	if err := <-done; err != nil {
		t.Fatalf("first load: %v", err)
	}
	snapshot := session.Snapshot()
	if snapshot.Busy || snapshot.State != Loaded {
		t.Fatalf("unexpected state after load: busy=%t state=%s", snapshot.Busy, snapshot.State)
	}
	if snapshot.LastFile != "first.csv" {
		t.Fatalf("rejected load must not change last file, got %q", snapshot.LastFile)
	}
	if snapshot.Collection.Len() != 0 {
		t.Fatalf("expected nameless rows to be dropped, got %d members", snapshot.Collection.Len())
	}
}
