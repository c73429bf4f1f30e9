package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/garyjia/settlement-portal/internal/application/aicheck"
	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

type mockExporter struct {
	rows int
}

func (m *mockExporter) ContentType() string   { return "text/csv" }
func (m *mockExporter) FileExtension() string { return "csv" }
func (m *mockExporter) Write(w io.Writer, apps []*entity.Application) error {
	m.rows = len(apps)
	_, err := io.WriteString(w, "ok")
	return err
}

func TestApplicationService_List(t *testing.T) {
	var month string
	records := &mockRecords{listFunc: func(ctx context.Context, m string) ([]*entity.Application, error) {
		month = m
		return []*entity.Application{{ApplicationID: "APP-1"}, {ApplicationID: "APP-2"}}, nil
	}}
	caches := aicheck.NewRegistry()
	caches.For("alice").Put("APP-2", &entity.AICheckResult{RiskLevel: entity.RiskError})

	svc := NewApplicationService(records, caches, nil, nil).(*applicationServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC) }

	apps, resolved, err := svc.List(context.Background(), "alice", "")
	if err != nil {
		t.Fatal(err)
	}
	if month != "2024-05" || resolved != "2024-05" {
		t.Errorf("month = %q / %q, want 2024-05", month, resolved)
	}
	if apps[0].AICheckResult != nil {
		t.Error("uncached application got a verdict")
	}
	if apps[1].AIRiskLevel != entity.RiskError || apps[1].AICheckResult == nil {
		t.Errorf("cached verdict not attached: %+v", apps[1])
	}

	if _, _, err := svc.List(context.Background(), "alice", "2024/05"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("invalid month error = %v", err)
	}
}

func TestApplicationService_Export(t *testing.T) {
	records := &mockRecords{listFunc: appsWith(&entity.Application{ApplicationID: "APP-1"})}
	exporter := &mockExporter{}
	svc := NewApplicationService(records, nil, map[string]port.ApplicationExporter{"csv": exporter}, nil)

	var buf bytes.Buffer
	file, err := svc.Export(context.Background(), &buf, "s", "2024-04", "")
	if err != nil {
		t.Fatal(err)
	}
	if file.Filename != "applications_2024-04.csv" || file.Count != 1 || exporter.rows != 1 {
		t.Errorf("file = %+v", file)
	}
	if buf.String() != "ok" {
		t.Errorf("body = %q", buf.String())
	}

	if _, err := svc.Export(context.Background(), &buf, "s", "2024-04", "pdf"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("unsupported format error = %v", err)
	}
}
