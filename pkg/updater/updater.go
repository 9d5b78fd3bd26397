// Package updater checks GitHub for newer releases of the browser.
package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/hal_browser/pkg/version"
)

var releaseURL = "https://api.github.com/repos/Dicklesworthstone/hal_browser/releases/latest"

// Release is the subset of the GitHub release payload we care about.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdates queries GitHub for the latest release. Returns the new
// version tag and its page URL when an update is available, empty strings
// otherwise.
func CheckForUpdates() (string, string, error) {
	// Short timeout so a slow GitHub never delays startup noticeably
	client := http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(releaseURL)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", err
	}

	if compareVersions(rel.TagName, version.Version) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}

	return "", "", nil
}

// compareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Compares dotted segments numerically so 0.10 sorts after 0.2.
func compareVersions(v1, v2 string) int {
	s1 := strings.Split(strings.TrimPrefix(v1, "v"), ".")
	s2 := strings.Split(strings.TrimPrefix(v2, "v"), ".")

	for i := 0; i < len(s1) || i < len(s2); i++ {
		a, b := 0, 0
		if i < len(s1) {
			a, _ = strconv.Atoi(s1[i])
		}
		if i < len(s2) {
			b, _ = strconv.Atoi(s2[i])
		}
		if a != b {
			if a > b {
				return 1
			}
			return -1
		}
	}
	return 0
}
