package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cmd "github.com/rohmanhakim/nps-nearby/internal/cli"
	"github.com/rohmanhakim/nps-nearby/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	base      = "https://www.nps.gov"
	placesKey = "http://www.mapquestapi.com/search/v2/radius?radius=10&key=test-key&origin=49931&maxMatches=10&ambiguities=ignore&outFormat=json"
)

// seededCache writes a cache file holding everything a michigan session
// needs, so no command below touches the network.
func seededCache(t *testing.T) string {
	t.Helper()
	entries := map[string]string{}
	entries[base+"/index.htm"] = `<ul class="dropdown-menu SearchBar-keywordSearch">
<li><a href="/state/mi/index.htm">Michigan</a></li>
</ul>`
	entries[base+"/state/mi/index.htm"] = `<div id="parkListResults">
<h3><a href="/isro/">Isle Royale</a></h3>
<h3><a href="/piro/">Pictured Rocks</a></h3>
</div>`
	entries[base+"/isro/index.htm"] = `<div class="Hero-titleContainer"><a class="Hero-title">Isle Royale</a>
<div class="Hero-designationContainer"><span class="Hero-designation">National Park</span></div></div>
<div class="vcard"><span itemprop="addressLocality">Houghton</span>
<span itemprop="addressRegion">MI</span><span itemprop="postalCode">49931</span>
<span itemprop="telephone">(906) 482-0984</span></div>`
	entries[base+"/piro/index.htm"] = `<div class="Hero-titleContainer"><a class="Hero-title">Pictured Rocks</a></div>`
	entries[placesKey] = `{"searchResults":[{"fields":{"name":"Mariner North","group_sic_code_name":"Motels","address":"245 Gratiot St","city":"Copper Harbor"}}]}`

	data, err := json.Marshal(entries)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cache_NPS.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

type run struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, input string, args ...string) run {
	t.Helper()
	cmd.ResetFlags()
	t.Setenv(config.APIKeyEnvVar, "")

	logPath := filepath.Join(t.TempDir(), "nps-nearby.log")
	args = append(args, "--cooldown", "0s", "--log-file", logPath)

	var stdout, stderr bytes.Buffer
	err := cmd.ExecuteWith(context.Background(), args, strings.NewReader(input), &stdout, &stderr)
	return run{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestSession_ServedFromCache(t *testing.T) {
	cacheFile := seededCache(t)
	before, err := os.ReadFile(cacheFile)
	require.NoError(t, err)

	r := execute(t, "Michigan\n1\nexit\n", "--cache-file", cacheFile, "--api-key", "test-key")
	require.NoError(t, r.err)

	assert.Contains(t, r.stdout, "List of national sites in Michigan")
	assert.Contains(t, r.stdout, "[1] Isle Royale (National Park): Houghton, MI 49931")
	assert.Contains(t, r.stdout, "[2] Pictured Rocks (No Category): No Address No Zipcode")
	assert.Contains(t, r.stdout, "Places near Isle Royale")
	assert.Contains(t, r.stdout, "Mariner North (Motels): 245 Gratiot St, Copper Harbor")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(r.stdout), "Bye!"))

	// every answer was a hit, so nothing was written back
	after, err := os.ReadFile(cacheFile)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSession_MissingAPIKeyIsReported(t *testing.T) {
	cacheFile := seededCache(t)

	r := execute(t, "michigan\n1\nback\nexit\n", "--cache-file", cacheFile)
	require.NoError(t, r.err)

	assert.Contains(t, r.stdout, "[Error] explorer error: missing API key")
	assert.NotContains(t, r.stdout, "Places near")
	assert.Contains(t, r.stdout, "Bye!")
}

func TestSession_EndOfInput(t *testing.T) {
	r := execute(t, "", "--cache-file", seededCache(t))
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Enter a state name")
}

func TestExport_Markdown(t *testing.T) {
	outDir := t.TempDir()

	r := execute(t, "", "export", "--state", "michigan", "--output-dir", outDir, "--cache-file", seededCache(t))
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Wrote 2 sites to ")

	content, err := os.ReadFile(filepath.Join(outDir, "michigan.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# National sites in Michigan")
	assert.Contains(t, string(content), "| 1 | [Isle Royale](https://www.nps.gov/isro/index.htm) | National Park |")
	assert.Contains(t, string(content), "| 2 | [Pictured Rocks](https://www.nps.gov/piro/index.htm) | No Category |")
}

func TestExport_HTML(t *testing.T) {
	outDir := t.TempDir()

	r := execute(t, "", "export", "--state", "Michigan", "--format", "html", "--output-dir", outDir, "--cache-file", seededCache(t))
	require.NoError(t, r.err)

	content, err := os.ReadFile(filepath.Join(outDir, "michigan.html"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "<title>National sites in Michigan</title>")
	assert.Contains(t, string(content), "<table>")
}

func TestExport_Failures(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"state missing", []string{"export"}, "--state is required"},
		{"unknown format", []string{"export", "--state", "michigan", "--format", "pdf"}, "unknown report format"},
		{"unknown state", []string{"export", "--state", "atlantis"}, `unknown state "atlantis"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--cache-file", seededCache(t), "--output-dir", t.TempDir())
			r := execute(t, "", args...)
			require.Error(t, r.err)
			assert.Contains(t, r.err.Error(), tt.wantErr)
		})
	}
}

func TestCacheStats(t *testing.T) {
	cacheFile := seededCache(t)

	r := execute(t, "", "cache", "stats", "--cache-file", cacheFile)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "backend: json")
	assert.Contains(t, r.stdout, "file:    "+cacheFile)
	assert.Contains(t, r.stdout, "entries: 5")
}

func TestCacheKeys_RedactsAPIKey(t *testing.T) {
	r := execute(t, "", "cache", "keys", "--cache-file", seededCache(t))
	require.NoError(t, r.err)

	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 5)
	// sorted, so the places request comes first
	assert.Equal(t, "http://www.mapquestapi.com/search/v2/radius?radius=10&key=REDACTED&origin=49931&maxMatches=10&ambiguities=ignore&outFormat=json", lines[0])
	assert.Equal(t, base+"/index.htm", lines[1])
	assert.NotContains(t, r.stdout, "test-key")
}

func TestCacheStats_MemoryBackendStartsEmpty(t *testing.T) {
	r := execute(t, "", "cache", "stats", "--cache-backend", "memory")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "backend: memory")
	assert.Contains(t, r.stdout, "entries: 0")
}

func TestVersion(t *testing.T) {
	r := execute(t, "", "version")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "nps-nearby dev+none"))
}
