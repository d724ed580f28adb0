package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"rest-recon/internal/model"
)

func sampleReport() *model.Report {
	r := model.NewReport("/src", "2")
	r.FilesScanned = 5
	r.AddController(model.Controller{ClassName: "A", Type: model.ControllerCategories})
	r.AddController(model.Controller{ClassName: "B", Type: model.ControllerAction})
	r.AddGenerated(model.Generated{
		Endpoint:  model.Endpoint{ResourceType: model.ResourceCategories},
		TestNames: []string{"TestOne", "TestTwo"},
	})
	r.AddGenerated(model.Generated{
		Endpoint:  model.Endpoint{ResourceType: model.ResourceAction},
		TestNames: []string{"TestThree"},
	})
	r.AddSkipped("load.php", "not a REST controller")
	r.AddSkipped("bad.php", "not a REST controller")
	r.AddWarning("B: no endpoints")
	return r
}

func TestRecordReport(t *testing.T) {
	m := NewMetrics()
	m.RecordReport(sampleReport())

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"files scanned", testutil.ToFloat64(m.FilesScanned), 5},
		{"skipped", testutil.ToFloat64(m.FilesSkipped.WithLabelValues("not a REST controller")), 2},
		{"categories controllers", testutil.ToFloat64(m.ControllersTotal.WithLabelValues("categories")), 1},
		{"action endpoints", testutil.ToFloat64(m.EndpointsTotal.WithLabelValues("action")), 1},
		{"tests", testutil.ToFloat64(m.TestsTotal), 3},
		{"warnings", testutil.ToFloat64(m.WarningsTotal), 1},
		{"battery", testutil.ToFloat64(m.BatteryInfo.WithLabelValues("2")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	families, err := m.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(families) == 0 {
		t.Error("No metrics were gathered")
	}
}

func TestWriteFile(t *testing.T) {
	m := NewMetrics()
	m.RecordReport(sampleReport())

	path := filepath.Join(t.TempDir(), "metrics.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	for _, want := range []string{
		"rest_recon_files_scanned_total 5",
		`rest_recon_endpoints_total{resource_type="categories"} 1`,
		"rest_recon_tests_total 3",
		"# HELP rest_recon_warnings_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics file lacks %q:\n%s", want, body)
		}
	}
}
