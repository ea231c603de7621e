package health

import (
	"context"
	"errors"
	"testing"

	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockCatalog struct {
	catalog domprop.Catalog
	err     error
	called  bool
}

func (m *mockCatalog) Load(_ context.Context) (domprop.Catalog, error) {
	m.called = true
	return m.catalog, m.err
}

func twoProperties() domprop.Catalog {
	return domprop.NewCatalog(map[string]domprop.Descriptor{
		"Height":   {ID: 0, Type: "wpg"},
		"Modified": {ID: 12, Type: "dat"},
	})
}

// --- Tests ---

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		catErr     error
		wantStatus Status
		wantDB     CheckResult
		wantCat    CheckResult
		wantProps  int
	}{
		{"all healthy", nil, nil, Healthy, CheckOK, CheckOK, 2},
		{"catalog error", nil, errors.New("corrupt"), Degraded, CheckOK, CheckError, 0},
		{"db error", errors.New("conn refused"), nil, Unhealthy, CheckError, CheckSkipped, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &mockCatalog{catalog: twoProperties(), err: tt.catErr}
			r := New(&mockDBPinger{err: tt.dbErr}, cat).Check(context.Background())

			if r.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", r.Status, tt.wantStatus)
			}
			if r.Checks["database"] != tt.wantDB {
				t.Errorf("database = %q, want %q", r.Checks["database"], tt.wantDB)
			}
			if r.Checks["catalog"] != tt.wantCat {
				t.Errorf("catalog = %q, want %q", r.Checks["catalog"], tt.wantCat)
			}
			if r.Properties != tt.wantProps {
				t.Errorf("Properties = %d, want %d", r.Properties, tt.wantProps)
			}
		})
	}
}

func TestCheck_DBErrorSkipsCatalog(t *testing.T) {
	cat := &mockCatalog{}
	New(&mockDBPinger{err: errors.New("down")}, cat).Check(context.Background())
	if cat.called {
		t.Error("catalog should not be loaded when the database is down")
	}
}

func TestCheck_NoCatalog(t *testing.T) {
	r := New(&mockDBPinger{}, nil).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["catalog"]; ok {
		t.Error("catalog check should be absent when catalog is nil")
	}
}
