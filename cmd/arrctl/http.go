package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// doRequest performs the HTTP call and writes the (pretty-printed when JSON)
// response body to stdout. Non-2xx responses become errors carrying the body.
func doRequest(cfg *cliConfig, method, path string, body any) error {
	url := strings.TrimRight(cfg.Server, "/") + path

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: cfg.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(raw)))
	}
	if len(raw) == 0 {
		fmt.Println("ok")
		return nil
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		pretty.WriteByte('\n')
		_, err = pretty.WriteTo(os.Stdout)
		return err
	}
	fmt.Println(strings.TrimSpace(string(raw)))
	return nil
}

func getAndPrint(cfg *cliConfig, path string) error {
	return doRequest(cfg, http.MethodGet, path, nil)
}

func postAndPrint(cfg *cliConfig, path string, body any) error {
	return doRequest(cfg, http.MethodPost, path, body)
}
