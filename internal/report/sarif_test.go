package report

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestWriteSARIFWithStats_IncludesProperties(t *testing.T) {
	stats := map[string]int{"filesScanned": 2, "filesCached": 1}
	var buf bytes.Buffer
	if err := WriteSARIFWithStats(&buf, sampleFindings(), stats); err != nil {
		t.Fatalf("WriteSARIFWithStats: %v", err)
	}
	var doc struct {
		Runs []struct {
			Properties map[string]any `json:"properties"`
			Tool       struct {
				Driver struct {
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v; body=%s", err, buf.String())
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(doc.Runs))
	}
	st, ok := doc.Runs[0].Properties["scanStats"].(map[string]any)
	if !ok || st["filesScanned"].(float64) != 2 {
		t.Fatalf("unexpected properties: %#v", doc.Runs[0].Properties)
	}
	rules := doc.Runs[0].Tool.Driver.Rules
	if len(rules) != 5 {
		t.Fatalf("expected one rule per kind, got %d", len(rules))
	}
	for _, r := range doc.Runs[0].Results {
		if rules[r.RuleIndex].ID != r.RuleID {
			t.Fatalf("ruleIndex %d does not point at %s", r.RuleIndex, r.RuleID)
		}
	}
}

func TestWriteSARIF_Golden(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, sampleFindings()); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc["version"] != "2.1.0" {
		t.Fatalf("expected SARIF 2.1.0, got %v", doc["version"])
	}
	run := doc["runs"].([]any)[0].(map[string]any)
	if _, ok := run["properties"]; ok {
		t.Fatalf("properties must be omitted without stats")
	}
	res := run["results"].([]any)[0].(map[string]any)
	if res["ruleId"] != "domain" {
		t.Fatalf("unexpected ruleId %v", res["ruleId"])
	}
	phys := res["locations"].([]any)[0].(map[string]any)["physicalLocation"].(map[string]any)
	region := phys["region"].(map[string]any)
	if region["startLine"].(float64) != 2 || region["startColumn"].(float64) != 5 || region["endColumn"].(float64) != 17 {
		t.Fatalf("unexpected region %#v", region)
	}
	if region["snippet"].(map[string]any)["text"] != "evil[.]example" {
		t.Fatalf("snippet must be defanged: %#v", region["snippet"])
	}
}

func TestWriteSARIF_EmptyResultsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"results": []`)) {
		t.Fatalf("expected empty results array; got %s", buf.String())
	}
}
