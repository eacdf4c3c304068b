package cache

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"matching-backend/internal/matching"
)

func TestPGEmbeddingCacheRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	c := &PGEmbeddingCache{DB: db, Model: "text-embedding-3-small"}
	vec := []float32{0.25, -1.5, 3}
	encoded := encodeVector(vec)

	mock.ExpectExec("INSERT INTO embedding_cache").
		WithArgs(TextHash("Senior Accountant"), "text-embedding-3-small", encoded).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := c.Put(context.Background(), "Senior Accountant", vec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mock.ExpectQuery("SELECT vector").
		WithArgs(TextHash("senior  accountant "), "text-embedding-3-small").
		WillReturnRows(sqlmock.NewRows([]string{"vector"}).AddRow(encoded))
	got, ok, err := c.Get(context.Background(), "senior  accountant ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get: expected hit")
	}
	if len(got) != len(vec) {
		t.Fatalf("got %d values, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Fatalf("value %d: got %v, want %v", i, got[i], vec[i])
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGEmbeddingCacheMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	c := &PGEmbeddingCache{DB: db, Model: "text-embedding-3-small"}
	mock.ExpectQuery("SELECT vector").
		WithArgs(TextHash("unknown"), "text-embedding-3-small").
		WillReturnRows(sqlmock.NewRows([]string{"vector"}))

	_, ok, err := c.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}
}

func TestPGTitleCacheRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	c := &PGTitleCache{DB: db}
	mapping := matching.TitleMapping{Canonical: "Accountant", Similarity: 0.93}

	mock.ExpectExec("INSERT INTO title_mappings").
		WithArgs("senior accountant", "Accountant", 0.93).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := c.Put(context.Background(), " Senior  Accountant", mapping); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mock.ExpectQuery("SELECT canonical, similarity").
		WithArgs("senior accountant").
		WillReturnRows(sqlmock.NewRows([]string{"canonical", "similarity"}).AddRow("Accountant", 0.93))
	got, ok, err := c.Get(context.Background(), "Senior Accountant")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if got != mapping {
		t.Fatalf("got %+v, want %+v", got, mapping)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestCacheResets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM embedding_cache").WillReturnResult(sqlmock.NewResult(0, 42))
	mock.ExpectExec("DELETE FROM title_mappings").WillReturnResult(sqlmock.NewResult(0, 7))

	ec := &PGEmbeddingCache{DB: db}
	if err := ec.Reset(context.Background()); err != nil {
		t.Fatalf("embedding Reset: %v", err)
	}
	tc := &PGTitleCache{DB: db}
	if err := tc.Reset(context.Background()); err != nil {
		t.Fatalf("title Reset: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestMemoryCachesNormalizeKeys(t *testing.T) {
	ctx := context.Background()

	ec := NewMemoryEmbeddingCache()
	if err := ec.Put(ctx, "Senior Accountant", []float32{1, 2}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := ec.Get(ctx, "  senior   ACCOUNTANT "); !ok {
		t.Fatal("expected hit across whitespace/case variants")
	}
	if err := ec.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, ok, _ := ec.Get(ctx, "Senior Accountant"); ok {
		t.Fatal("expected miss after reset")
	}

	tc := NewMemoryTitleCache()
	if err := tc.Put(ctx, "Sr. Accountant", matching.TitleMapping{Canonical: "Accountant", Similarity: 0.9}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, _ := tc.Get(ctx, "sr.  accountant")
	if !ok || got.Canonical != "Accountant" {
		t.Fatalf("title cache miss or wrong value: ok=%v got=%+v", ok, got)
	}
}
