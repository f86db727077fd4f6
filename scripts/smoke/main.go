// Command smoke logs in with the seeded demo accounts and checks that each role gets the
// expected status from a set of read endpoints. It exits non-zero on any critical mismatch.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type target struct {
	Username string `json:"username"`
	Method   string `json:"method"`
	Path     string `json:"path"`
	Status   int    `json:"status"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Duration time.Duration
	Error    error
}

var defaultTargets = []target{
	{Username: "admin", Method: http.MethodGet, Path: "/hierarchy", Status: http.StatusOK, Critical: true},
	{Username: "admin", Method: http.MethodGet, Path: "/users", Status: http.StatusOK, Critical: true},
	{Username: "admin", Method: http.MethodGet, Path: "/dashboard/stats", Status: http.StatusOK, Critical: true},
	{Username: "admin", Method: http.MethodGet, Path: "/reports/departments", Status: http.StatusOK},
	{Username: "teacher", Method: http.MethodGet, Path: "/courses", Status: http.StatusOK, Critical: true},
	{Username: "teacher", Method: http.MethodGet, Path: "/users", Status: http.StatusForbidden, Critical: true},
	{Username: "student", Method: http.MethodGet, Path: "/courses/mine", Status: http.StatusOK, Critical: true},
	{Username: "student", Method: http.MethodGet, Path: "/notifications", Status: http.StatusOK},
	{Username: "student", Method: http.MethodGet, Path: "/dashboard/stats", Status: http.StatusForbidden, Critical: true},
}

func main() {
	var (
		base        string
		password    string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL including prefix")
	flag.StringVar(&password, "password", "password123", "Password of the seeded accounts")
	flag.StringVar(&targetsPath, "targets", "", "Optional JSON targets file; defaults to the built-in list")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := defaultTargets
	if targetsPath != "" {
		loaded, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		targets = loaded
	}

	client := &http.Client{Timeout: timeout}
	tokens := map[string]string{}
	var (
		results  []result
		breaking int
		optional int
	)

	for _, t := range targets {
		token, ok := tokens[t.Username]
		if !ok {
			var err error
			token, err = login(client, base, t.Username, password)
			if err != nil {
				log.Fatalf("login as %s failed: %v", t.Username, err)
			}
			tokens[t.Username] = token
		}
		res := check(client, base, token, t)
		if res.Error != nil || res.Status != t.Status {
			if t.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Critical failures: %d, Optional failures: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func login(client *http.Client, base, username, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := client.Post(strings.TrimRight(base, "/")+"/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if envelope.Data.AccessToken == "" {
		return "", errors.New("login response carried no access token")
	}
	return envelope.Data.AccessToken, nil
}

func check(client *http.Client, base, token string, tgt target) result {
	res := result{Target: tgt}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		res.Error = err
		return res
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	res.Status = resp.StatusCode
	return res
}

func printReport(results []result) {
	fmt.Println("Smoke Report")
	fmt.Println("============")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.Status != res.Target.Status {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s as %s\n", status, res.Target.Method, res.Target.Path, res.Target.Username)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (want %d) in %s | Critical: %t\n", res.Status, res.Target.Status, res.Duration, res.Target.Critical)
	}
}
