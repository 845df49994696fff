package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateClientConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates new config", func(t *testing.T) {
		path := filepath.Join(tmpDir, "config.json")

		if err := generateClientConfig(path); err != nil {
			t.Fatalf("generateClientConfig() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read generated config: %v", err)
		}

		var config map[string]interface{}
		if err := json.Unmarshal(data, &config); err != nil {
			t.Fatalf("generated config is not valid JSON: %v", err)
		}

		mcpServers, ok := config["mcpServers"].(map[string]interface{})
		if !ok {
			t.Fatal("generated config missing mcpServers")
		}
		if _, ok := mcpServers["TravelMind"]; !ok {
			t.Error("generated config missing TravelMind server entry")
		}
	})

	t.Run("merges into existing config", func(t *testing.T) {
		path := filepath.Join(tmpDir, "existing.json")
		existing := `{"mcpServers":{"Other":{"command":"other","args":[]}}}`
		if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
			t.Fatalf("failed to seed config: %v", err)
		}

		if err := generateClientConfig(path); err != nil {
			t.Fatalf("generateClientConfig() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read merged config: %v", err)
		}

		var config map[string]interface{}
		if err := json.Unmarshal(data, &config); err != nil {
			t.Fatalf("merged config is not valid JSON: %v", err)
		}

		mcpServers := config["mcpServers"].(map[string]interface{})
		if _, ok := mcpServers["Other"]; !ok {
			t.Error("merge lost the pre-existing server entry")
		}
		if _, ok := mcpServers["TravelMind"]; !ok {
			t.Error("merge did not add the TravelMind server entry")
		}
	})
}
