// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: http-authorization, http-cookie. These become
// request headers on web fetches so that mapped pages behind
// SharePoint or intranet auth resolve.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// headerKeys maps secret filenames to the HTTP header each one feeds.
var headerKeys = map[string]string{
	"http-authorization": "Authorization",
	"http-cookie":        "Cookie",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Headers converts loaded secrets into the HTTP request headers the web
// record builder sends. Unrecognized secret names are ignored.
func Headers(secrets map[string]string) map[string]string {
	headers := make(map[string]string)
	for name, header := range headerKeys {
		if v, ok := secrets[name]; ok {
			headers[header] = v
		}
	}
	return headers
}
