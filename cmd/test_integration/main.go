package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Drives a running mechcheck server: lists versions, checks them all and
// translates one name from the first version.
func main() {
	baseURL := os.Getenv("MECHCHECK_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Listing versions...")
	var versions struct {
		Versions []string `json:"versions"`
	}
	if !sendRequest(baseURL, "GET", "/versions", nil, &versions) || len(versions.Versions) == 0 {
		fmt.Println("FAILED: List versions")
		os.Exit(1)
	}
	fmt.Printf("PASSED: List versions %v\n", versions.Versions)

	fmt.Println("2. Checking all versions...")
	var check struct {
		Summary struct {
			TotalConflicts int `json:"total_conflicts"`
			FailedVersions int `json:"failed_versions"`
		} `json:"summary"`
	}
	if !sendRequest(baseURL, "POST", "/check", map[string]interface{}{"publish": true}, &check) {
		fmt.Println("FAILED: Check")
		os.Exit(1)
	}
	fmt.Printf("PASSED: Check (%d conflicts, %d failed versions)\n", check.Summary.TotalConflicts, check.Summary.FailedVersions)

	name := os.Getenv("MECHCHECK_SPECIES")
	if name == "" {
		name = "CH3O2"
	}
	fmt.Println("3. Translating", name, "...")
	payload := map[string]string{"version": versions.Versions[0], "name": name}
	if !sendRequest(baseURL, "POST", "/translate", payload, nil) {
		fmt.Println("FAILED: Translate")
		os.Exit(1)
	}
	fmt.Println("PASSED: Translate")
}

func sendRequest(baseURL, method, endpoint string, payload interface{}, out interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			fmt.Printf("Error decoding response: %v\n", err)
			return false
		}
	} else {
		fmt.Printf("Response: %s\n", string(respBody))
	}
	return true
}
