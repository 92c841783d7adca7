package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusconform/validator/pkg/loader"
)

const minimalCatalogJSON = `{
  "ConformanceDatasets": {
    "BillingAccount": {"ConformanceRules": ["BilledCost-C-001-M", "ListUnitPrice-D-000-M"]}
  },
  "ConformanceRules": {
    "BilledCost-C-001-M": {
      "Function": "CheckFunction",
      "Reference": "4.2.1",
      "EntityType": "Column",
      "Status": "Active",
      "Type": "Dynamic",
      "ApplicabilityCriteria": [],
      "ValidationCriteria": {
        "MustSatisfy": "BilledCost must be numeric",
        "Keyword": "MUST",
        "Requirement": {"CheckFunction": "TypeDecimal", "ColumnName": "BilledCost"},
        "Dependencies": []
      },
      "Notes": "",
      "ConformanceVersionIntroduced": "1.0"
    },
    "ListUnitPrice-D-000-M": {
      "Function": "CheckFunction",
      "Reference": "4.2.2",
      "EntityType": "Dataset",
      "Status": "Active",
      "Type": "Static",
      "ApplicabilityCriteria": [],
      "ValidationCriteria": {
        "MustSatisfy": "ListUnitPrice must be present",
        "Keyword": "MUST",
        "Requirement": {"CheckFunction": "ColumnPresent", "ColumnName": "ListUnitPrice"},
        "Dependencies": []
      },
      "Notes": "",
      "ConformanceVersionIntroduced": "1.0"
    }
  },
  "CheckFunctions": {},
  "ApplicabilityCriteria": {}
}`

func writeFixtures(t *testing.T, csvBody string) (catalogPath, csvPath string) {
	t.Helper()
	dir := t.TempDir()
	catalogPath = filepath.Join(dir, "catalog.json")
	csvPath = filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte(minimalCatalogJSON), 0o644))
	require.NoError(t, os.WriteFile(csvPath, []byte(csvBody), 0o644))
	return catalogPath, csvPath
}

func TestRun_EndToEnd(t *testing.T) {
	catalogPath, csvPath := writeFixtures(t, "BilledCost,ListUnitPrice\n10.5,1.0\n")

	outcome, err := Run(context.Background(), Options{
		CatalogPath: catalogPath,
		DatasetName: "BillingAccount",
		DataPath:    csvPath,
	})
	require.NoError(t, err)
	require.NoError(t, outcome.PlanErr)

	typeVerdict := outcome.Results.ByRuleID["BilledCost-C-001-M"]
	presenceVerdict := outcome.Results.ByRuleID["ListUnitPrice-D-000-M"]
	require.NotNil(t, typeVerdict)
	require.NotNil(t, presenceVerdict)
	assert.True(t, typeVerdict.OK)
	assert.True(t, presenceVerdict.OK)
}

func TestRun_MissingColumnFailsPresenceCheck(t *testing.T) {
	catalogPath, csvPath := writeFixtures(t, "BilledCost\n10.5\n")

	outcome, err := Run(context.Background(), Options{
		CatalogPath: catalogPath,
		DatasetName: "BillingAccount",
		DataPath:    csvPath,
	})
	require.NoError(t, err)

	presenceVerdict := outcome.Results.ByRuleID["ListUnitPrice-D-000-M"]
	require.NotNil(t, presenceVerdict)
	assert.False(t, presenceVerdict.OK)
}

func TestRun_UnknownDataset(t *testing.T) {
	catalogPath, csvPath := writeFixtures(t, "BilledCost\n10.5\n")

	_, err := Run(context.Background(), Options{
		CatalogPath: catalogPath,
		DatasetName: "Ghost",
		DataPath:    csvPath,
	})
	assert.Error(t, err)
}

func TestBuildPlan(t *testing.T) {
	catalogPath, _ := writeFixtures(t, "BilledCost\n10.5\n")

	outcome, err := BuildPlan(PlanOptions{
		CatalogPath: catalogPath,
		DatasetName: "BillingAccount",
	})
	require.NoError(t, err)
	require.NoError(t, outcome.PlanErr)
	assert.Len(t, outcome.Plan.Nodes, 2)
}

func TestProbeSchema(t *testing.T) {
	catalogPath, _ := writeFixtures(t, "BilledCost\n10.5\n")

	probe, err := ProbeSchema(SchemaOptions{
		CatalogPath: catalogPath,
		DatasetName: "BillingAccount",
	})
	require.NoError(t, err)
	assert.Contains(t, probe.Columns(), "BilledCost")
}

func TestSelectLoader(t *testing.T) {
	assert.IsType(t, loader.CSVLoader{}, selectLoader("data.csv"))
	assert.IsType(t, loader.ParquetLoader{}, selectLoader("data.parquet"))
	assert.IsType(t, loader.ParquetLoader{}, selectLoader("DATA.PARQUET"))
}
