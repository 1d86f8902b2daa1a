package metrics_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aidarkhanov/queuectl/metrics"
)

func TestFileSinkWritesLineDelimitedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	sink, err := metrics.NewFileSink(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	sink.Emit("start", "job-1", "")
	sink.Emit("complete", "job-1", "completed")

	time.Sleep(50 * time.Millisecond)

	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var events []metrics.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev metrics.Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatal(err)
		}
		events = append(events, ev)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Event != "start" || events[1].Status != "completed" {
		t.Fatalf("unexpected events: %+v", events)
	}
}
