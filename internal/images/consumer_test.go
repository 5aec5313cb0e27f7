package images

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/temankemah/temankemah-backend/pkg/logger"
)

type fakeDestroyer struct {
	calls []string
	err   error
}

func (f *fakeDestroyer) Destroy(ctx context.Context, publicID string) error {
	f.calls = append(f.calls, publicID)
	return f.err
}

type fakeOrphanRecorder struct {
	rows [][2]string
	err  error
}

func (f *fakeOrphanRecorder) Create(ctx context.Context, publicID, source string) error {
	f.rows = append(f.rows, [2]string{publicID, source})
	return f.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
}

func newTestConsumer(t *testing.T, cdn *fakeDestroyer, orphans *fakeOrphanRecorder) *Consumer {
	t.Helper()
	return &Consumer{
		cdn:     cdn,
		orphans: orphans,
		logg:    testLogger(),
	}
}

func TestProcessDestroysAsset(t *testing.T) {
	cdn := &fakeDestroyer{}
	orphans := &fakeOrphanRecorder{}
	consumer := newTestConsumer(t, cdn, orphans)

	payload, err := DeletionEvent{PublicID: "temankemah/abc", Source: "activities"}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	consumer.Process(context.Background(), payload)

	if len(cdn.calls) != 1 || cdn.calls[0] != "temankemah/abc" {
		t.Fatalf("expected destroy call, got %v", cdn.calls)
	}
	if len(orphans.rows) != 0 {
		t.Fatalf("no orphan expected on success, got %v", orphans.rows)
	}
}

func TestProcessRecordsOrphanOnDestroyFailure(t *testing.T) {
	cdn := &fakeDestroyer{err: errors.New("cdn down")}
	orphans := &fakeOrphanRecorder{}
	consumer := newTestConsumer(t, cdn, orphans)

	payload, _ := DeletionEvent{PublicID: "temankemah/xyz", Source: "camp_areas"}.Encode()
	consumer.Process(context.Background(), payload)

	if len(orphans.rows) != 1 {
		t.Fatalf("expected one orphan row, got %d", len(orphans.rows))
	}
	if orphans.rows[0] != [2]string{"temankemah/xyz", "camp_areas"} {
		t.Fatalf("unexpected orphan row %v", orphans.rows[0])
	}
}

func TestProcessIgnoresMalformedPayloads(t *testing.T) {
	cdn := &fakeDestroyer{}
	orphans := &fakeOrphanRecorder{}
	consumer := newTestConsumer(t, cdn, orphans)

	consumer.Process(context.Background(), []byte("not json"))
	consumer.Process(context.Background(), []byte(`{"source":"activities"}`))

	if len(cdn.calls) != 0 {
		t.Fatalf("no destroy expected, got %v", cdn.calls)
	}
	if len(orphans.rows) != 0 {
		t.Fatalf("no orphan expected, got %v", orphans.rows)
	}
}
