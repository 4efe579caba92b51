package server

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()
	if len(tools) == 0 {
		t.Fatal("no tools defined")
	}

	want := map[string]bool{
		"photometry_load":              false,
		"photometry_dimensions":        false,
		"photometry_aperture_sum":      false,
		"photometry_aperture_sum_multi": false,
		"photometry_background_stats":  false,
		"photometry_cutout":            false,
	}

	seen := map[string]bool{}
	for _, tool := range tools {
		if tool.Name == "" {
			t.Error("tool with empty name")
		}
		if !strings.HasPrefix(tool.Name, "photometry_") {
			t.Errorf("tool %q missing photometry_ prefix", tool.Name)
		}
		if tool.Description == "" {
			t.Errorf("tool %q has no description", tool.Name)
		}
		if tool.InputSchema == nil {
			t.Errorf("tool %q has no input schema", tool.Name)
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool name %q", tool.Name)
		}
		seen[tool.Name] = true

		if _, known := want[tool.Name]; known {
			want[tool.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected tool %q not defined", name)
		}
	}
}

func TestToolSchemasAreValid(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.InputSchema["type"] != "object" {
				t.Errorf("schema type: got %v, want object", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("schema has no properties object")
			}
			if _, hasPath := props["path"]; !hasPath {
				t.Error("every tool takes a path argument")
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) == 0 {
				t.Fatal("schema has no required list")
			}
			for _, name := range required {
				if _, present := props[name]; !present {
					t.Errorf("required field %q not among properties", name)
				}
			}

			// Definitions go over the wire; they must encode cleanly.
			if _, err := json.Marshal(tool); err != nil {
				t.Errorf("schema not JSON-encodable: %v", err)
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("tools/list failed: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type %T", resp.Result)
	}
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatalf("tools: got %T", result["tools"])
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools, want %d", len(tools), len(GetToolDefinitions()))
	}
}
