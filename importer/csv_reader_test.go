package importer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"memberdir/config"
)

func TestCSVReader_HeaderAndBlankLines(t *testing.T) {
	t.Parallel()

	input := "\ufeffالاسم الرباعي,رقم لهوية,Extra\n" +
		"سارة أحمد,123,x\n" +
		"\n" +
		"Omar,789\n"

	records, err := (&CSVReader{}).Read(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if got := records[0].Get("الاسم الرباعي"); got != "سارة أحمد" {
		t.Fatalf("unexpected name in first record: %q", got)
	}
	if got := records[1].Get("رقم لهوية"); got != "789" {
		t.Fatalf("unexpected id in second record: %q", got)
	}
	if got := records[1].Get("Extra"); got != "" {
		t.Fatalf("expected missing trailing cell to be empty, got %q", got)
	}
	if records[1].RowNumber != 4 {
		t.Fatalf("expected source line 4 for second record, got %d", records[1].RowNumber)
	}
}

func TestCSVReader_EmptyInput(t *testing.T) {
	t.Parallel()

	records, err := (&CSVReader{}).Read(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestCSVReader_KeepsStrayQuotes(t *testing.T) {
	t.Parallel()

	input := "الاسم الرباعي,رقم لهوية\n" +
		"Ali \"Abu\" Omar,1\n" +
		"Sara,2\n"

	records, err := (&CSVReader{}).Read(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if got := records[0].Get("الاسم الرباعي"); got != "Ali \"Abu\" Omar" {
		t.Fatalf("unexpected name with quotes: %q", got)
	}

	members := Normalize(records, NewMemberMapper(config.DefaultColumns())).Members
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
}

func TestCSVReader_ReadErrorKeepsCause(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("disk gone")
	input := io.MultiReader(
		strings.NewReader("name,id\n\n\n\nAli,1\n"),
		iotest.ErrReader(errDisk),
	)

	_, err := (&CSVReader{}).Read(context.Background(), input)
	if !errors.Is(err, errDisk) {
		t.Fatalf("expected read error to be wrapped, got %v", err)
	}
	if strings.Contains(err.Error(), "row") {
		t.Fatalf("expected no computed row number in %q", err.Error())
	}
}

func TestCSVReader_StopsWhenContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&CSVReader{}).Read(ctx, strings.NewReader("name,id\nAli,1\n"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestRecordGet_NormalizesLabels(t *testing.T) {
	t.Parallel()

	record := Record{Values: map[string]string{
		normalizeHeader(" Full_Name "): "  Ali Hassan ",
	}}
	if got := record.Get("full name"); got != "  Ali Hassan " {
		t.Fatalf("expected value as read, got %q", got)
	}
	if got := record.Get("missing", "fullname"); got != "  Ali Hassan " {
		t.Fatalf("expected fallback key lookup, got %q", got)
	}
}
