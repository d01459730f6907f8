package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/unrest/internal/config"
	"github.com/talgya/unrest/internal/engine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "run.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBeginRunStoresParams(t *testing.T) {
	db := openTestDB(t)

	p := config.Default()
	p.Seed = 1234
	p.Width = 13

	runID, err := db.BeginRun(p)
	if err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("empty run ID")
	}

	got, err := db.RunParams(runID)
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Errorf("round-tripped params differ:\n got %+v\nwant %+v", got, p)
	}
}

func TestSaveAndLoadTicks(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.BeginRun(config.Default())
	if err != nil {
		t.Fatal(err)
	}

	aggs := []engine.Aggregate{
		{Iteration: 0, Stats: engine.Stats{Citizens: 10, Cops: 2, Quiescent: 10}},
		{Iteration: 1, Stats: engine.Stats{Citizens: 10, Cops: 2, Quiescent: 7, Active: 2, Jailed: 1,
			AvgJailTerm: 12, PendingEdges: 3, PendingRatio: 0.15, CensoredEdges: 1}},
	}
	rows := []engine.AgentRow{
		{ID: 0, X: 1, Y: 2, Breed: "citizen", Condition: "Active", ArrestProbability: 0.25},
		{ID: 1, X: 3, Y: 0, Breed: "cop"},
	}
	for _, agg := range aggs {
		if err := db.SaveTick(runID, agg, rows); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.LoadAggregates(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(aggs) {
		t.Fatalf("loaded %d aggregates, want %d", len(got), len(aggs))
	}
	for i := range aggs {
		if got[i] != aggs[i] {
			t.Errorf("aggregate %d differs:\n got %+v\nwant %+v", i, got[i], aggs[i])
		}
	}
}

func TestSaveTickRejectsDuplicateTick(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.BeginRun(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	agg := engine.Aggregate{Iteration: 3}
	if err := db.SaveTick(runID, agg, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveTick(runID, agg, nil); err == nil {
		t.Error("recording the same tick twice should fail")
	}
}

func TestRunsAreIsolated(t *testing.T) {
	db := openTestDB(t)

	runA, err := db.BeginRun(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	runB, err := db.BeginRun(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveTick(runA, engine.Aggregate{Iteration: 0}, nil); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadAggregates(runB)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("run B sees %d aggregates from run A", len(got))
	}
}
