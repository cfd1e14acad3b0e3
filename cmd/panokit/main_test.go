package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"panokit/internal/adapter"
	"panokit/internal/domain"
	"panokit/internal/prompt"
	"panokit/internal/repository"
	"panokit/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient stands in for adapter.Client
type fakeClient struct {
	cfg      adapter.ClientConfig
	key      string
	password string

	groups  []string
	objects map[string][]domain.NamedObject
	tags    map[string][]domain.Tag
	rules   map[string][]domain.SecurityRule
	info    *domain.SystemInfo

	logins int
}

func (f *fakeClient) Keygen(ctx context.Context, user, pass string) (string, error) {
	f.logins++
	if pass != f.password {
		return "", adapter.ErrAuthFailed
	}
	f.key = "KEY-" + user
	return f.key, nil
}

func (f *fakeClient) SetAPIKey(key string) { f.key = key }

func (f *fakeClient) Endpoint() string { return "https://" + f.cfg.Host + "/api/" }

func (f *fakeClient) DeviceGroups(ctx context.Context) ([]string, error) {
	return f.groups, nil
}

func (f *fakeClient) AddressObjects(ctx context.Context, scope string) ([]domain.NamedObject, error) {
	if f.key == "" {
		return nil, adapter.ErrNoAPIKey
	}
	return f.objects[scope], nil
}

func (f *fakeClient) Tags(ctx context.Context, dg string) ([]domain.Tag, error) {
	return f.tags[dg], nil
}

func (f *fakeClient) SecurityRules(ctx context.Context, dg string, rb domain.Rulebase) ([]domain.SecurityRule, error) {
	return f.rules[dg+"/"+string(rb)], nil
}

func (f *fakeClient) SystemInfo(ctx context.Context) (*domain.SystemInfo, error) {
	if f.info == nil {
		return nil, errors.New("op not permitted")
	}
	return f.info, nil
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		password: "secret",
		groups:   []string{"US", "eu", "Asia"},
		objects: map[string][]domain.NamedObject{
			"US": {
				domain.NewNamedObject("US", "web", "10.0.0.1"),
				domain.NewNamedObject("US", "web-alt", "10.0.0.1/32"),
				domain.NewNamedObject("US", "db", "10.0.0.2"),
			},
			"eu": {
				domain.NewNamedObject("eu", "dup", "1.1.1.1"),
				domain.NewNamedObject("eu", "dup", "2.2.2.2"),
			},
			domain.SharedScope: {
				domain.NewNamedObject("shared", "x", "9.9.9.9"),
			},
		},
		tags: map[string][]domain.Tag{
			"Asia": {{Name: "prod", Color: "color1"}},
			"eu":   {{Name: "lab", Comments: "test lab"}},
		},
		rules: map[string][]domain.SecurityRule{
			"US/pre":  {{Name: "allow-web", Sources: []string{"any"}, Action: "allow"}},
			"US/post": {{Name: "deny-all", Action: "deny", Disabled: true}},
		},
		info: &domain.SystemInfo{Hostname: "pano1", Version: "11.0.2", Uptime: "5 days"},
	}
}

type testEnv struct {
	app    *app
	out    *bytes.Buffer
	client *fakeClient
	dir    string
	config string
}

func newTestEnv(t *testing.T, input string, env map[string]string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "panokit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  dir: "+dir+"\n"), 0o600))

	var out, errOut bytes.Buffer
	client := newFakeClient()
	tick := time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local)
	te := &testEnv{out: &out, client: client, dir: dir, config: cfgPath}
	te.app = &app{
		out:      &out,
		errOut:   &errOut,
		prompter: prompt.New(strings.NewReader(input), &out, nil),
		lookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		now: func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		},
		dial: func(cfg adapter.ClientConfig) (panoramaClient, error) {
			client.cfg = cfg
			return client, nil
		},
		openStore: func(path string) (repository.ReportStore, error) {
			return sqlite.New(path)
		},
	}
	return te
}

func (te *testEnv) run(t *testing.T, command string, args ...string) error {
	t.Helper()
	return te.app.run(context.Background(), command, append([]string{"-config", te.config}, args...))
}

func (te *testEnv) outputs(t *testing.T, pattern string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(te.dir, pattern))
	require.NoError(t, err)
	return matches
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestVersionAndUnknown(t *testing.T) {
	te := newTestEnv(t, "", nil)

	require.NoError(t, te.app.run(context.Background(), "version", nil))
	assert.Equal(t, "panokit dev\n", te.out.String())

	err := te.app.run(context.Background(), "frobnicate", nil)
	assert.ErrorContains(t, err, "unknown command")
}

func TestDuplicatesWithAPIKey(t *testing.T) {
	te := newTestEnv(t, "", map[string]string{
		"PANORAMA_HOST":    "pano.example.com",
		"PANORAMA_API_KEY": "ENVKEY",
	})

	require.NoError(t, te.run(t, "duplicates", "-dg", "US", "-shared"))

	assert.Equal(t, "ENVKEY", te.client.key)
	assert.Zero(t, te.client.logins)
	assert.Equal(t, "pano.example.com", te.client.cfg.Host)
	assert.True(t, te.client.cfg.InsecureSkipVerify)

	files := te.outputs(t, duplicatesPrefix+"_*.csv")
	require.Len(t, files, 1)
	assert.Equal(t, "device_group,object_name,object_value,duplicate_type,duplicate_with\n"+
		"US,web,10.0.0.1,value,web-alt\n"+
		"US,web-alt,10.0.0.1/32,value,web\n", readFile(t, files[0]))

	out := te.out.String()
	assert.Contains(t, out, "Checking address objects for device group: US")
	assert.Contains(t, out, "Checking address objects for device group: shared")
	assert.Contains(t, out, "Check complete. 2 rows saved to")
}

func TestDuplicatesInteractive(t *testing.T) {
	input := strings.Join([]string{
		"pano.example.com", // host
		"admin", "wrong", // first attempt
		"admin", "secret", // second attempt
		"", // device group default: all
	}, "\n") + "\n"
	te := newTestEnv(t, input, nil)

	require.NoError(t, te.run(t, "duplicates", "-format", "csv,json"))

	assert.Equal(t, 2, te.client.logins)
	assert.Equal(t, "KEY-admin", te.client.key)

	out := te.out.String()
	assert.Contains(t, out, "Login failed. Check credentials. Attempt 1 of 3.")
	assert.Contains(t, out, "Login successful!")
	for _, dg := range []string{"US", "eu", "Asia"} {
		assert.Contains(t, out, "device group: "+dg)
	}

	csvFiles := te.outputs(t, duplicatesPrefix+"_*.csv")
	require.Len(t, csvFiles, 1)
	assert.Contains(t, readFile(t, csvFiles[0]), "eu,dup,1.1.1.1,name,dup\n")
	assert.Len(t, te.outputs(t, duplicatesPrefix+"_*.json"), 1)
}

func TestDuplicatesLoginExhausted(t *testing.T) {
	te := newTestEnv(t, "h\na\nx\na\ny\na\nz\n", nil)

	err := te.run(t, "duplicates")
	assert.ErrorIs(t, err, prompt.ErrTooManyAttempts)
	assert.Empty(t, te.outputs(t, "*.csv"))
}

func TestDuplicatesEnvCredentials(t *testing.T) {
	te := newTestEnv(t, "", map[string]string{
		"PANORAMA_HOST":     "pano",
		"PANORAMA_USERNAME": "svc",
		"PANORAMA_PASSWORD": "wrong",
	})

	err := te.run(t, "duplicates", "-dg", "US")
	assert.ErrorIs(t, err, adapter.ErrAuthFailed)
	assert.Equal(t, 1, te.client.logins, "environment credentials are tried once")
}

func TestDuplicatesRejectsUnknownFormat(t *testing.T) {
	te := newTestEnv(t, "", map[string]string{"PANORAMA_HOST": "pano", "PANORAMA_API_KEY": "k"})

	err := te.run(t, "duplicates", "-format", "docx")
	assert.ErrorContains(t, err, "docx")
	assert.Zero(t, te.client.logins)
}

func TestTagsMenuLoop(t *testing.T) {
	// menu is sorted: 1 Asia, 2 eu, 3 US, 4 ALL
	input := "1\ny\n2,1\nn\n"
	te := newTestEnv(t, input, map[string]string{"PANORAMA_HOST": "pano", "PANORAMA_API_KEY": "k"})

	require.NoError(t, te.run(t, "tags"))

	out := te.out.String()
	assert.Contains(t, out, "  1. Asia\n  2. eu\n  3. US\n  4. ALL (all listed device groups)")

	files := te.outputs(t, tagsPrefix+"_*.csv")
	require.Len(t, files, 2, "one report per run")
	assert.Equal(t, "device_group,tag_name,color,comments\nAsia,prod,color1,\n", readFile(t, files[0]))
	assert.Equal(t, "device_group,tag_name,color,comments\nAsia,prod,color1,\neu,lab,,test lab\n", readFile(t, files[1]))
}

func TestTagsInvalidSelection(t *testing.T) {
	te := newTestEnv(t, "abc\n", map[string]string{"PANORAMA_HOST": "pano", "PANORAMA_API_KEY": "k"})

	err := te.run(t, "tags")
	assert.ErrorIs(t, err, prompt.ErrNoSelection)
}

func TestPoliciesBothRulebases(t *testing.T) {
	te := newTestEnv(t, "", map[string]string{"PANORAMA_HOST": "pano", "PANORAMA_API_KEY": "k"})

	require.NoError(t, te.run(t, "policies", "-dg", "US", "-rulebase", "both"))

	files := te.outputs(t, policiesPrefix+"_*.csv")
	require.Len(t, files, 1)
	assert.Equal(t,
		"device_group,rulebase,rule_name,source,destination,application,service,action,enabled\n"+
			"US,pre,allow-web,any,,,,allow,yes\n"+
			"US,post,deny-all,,,,,deny,no\n",
		readFile(t, files[0]))
}

func TestPoliciesBadRulebase(t *testing.T) {
	te := newTestEnv(t, "", nil)
	err := te.run(t, "policies", "-rulebase", "sideways")
	assert.ErrorContains(t, err, "invalid rulebase")
}

func TestInfo(t *testing.T) {
	te := newTestEnv(t, "", map[string]string{"PANORAMA_HOST": "pano", "PANORAMA_API_KEY": "k"})

	require.NoError(t, te.run(t, "info"))

	out := te.out.String()
	assert.Contains(t, out, "Hostname: pano1")
	assert.Contains(t, out, "Number of device groups: 3")
	assert.Contains(t, out, "Device groups: US, eu, Asia\n")
	assert.Contains(t, out, "Number of shared address objects: 1")

	te.client.info = nil
	te.out.Reset()
	require.NoError(t, te.run(t, "info"))
	assert.Contains(t, te.out.String(), "Error getting system info: op not permitted")
}

func TestRunsListAndShow(t *testing.T) {
	te := newTestEnv(t, "", map[string]string{"PANORAMA_HOST": "pano", "PANORAMA_API_KEY": "k"})
	require.NoError(t, te.run(t, "duplicates", "-dg", "US", "-format", "sqlite"))

	dbs := te.outputs(t, duplicatesPrefix+"_*.db")
	require.Len(t, dbs, 1)

	te.out.Reset()
	require.NoError(t, te.run(t, "runs", "-db", dbs[0]))
	lines := strings.Split(strings.TrimSpace(te.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID "))
	fields := strings.Fields(lines[1])
	require.Len(t, fields, 5)
	assert.Equal(t, "duplicates", fields[3])
	assert.Equal(t, "pano", fields[4])

	te.out.Reset()
	require.NoError(t, te.run(t, "runs", "-db", dbs[0], "-show", fields[0][:8], "-format", "csv,sqlite"))
	assert.Contains(t, te.out.String(), "Exported 2 rows of run "+fields[0])

	files := te.outputs(t, duplicatesPrefix+"_*.csv")
	require.Len(t, files, 1)
	assert.Equal(t, "device_group,object_name,object_value,duplicate_type,duplicate_with\n"+
		"US,web,10.0.0.1,value,web-alt\n"+
		"US,web-alt,10.0.0.1/32,value,web\n", readFile(t, files[0]))
	assert.Equal(t, strings.TrimSuffix(dbs[0], ".db")+".csv", files[0], "file keeps the run timestamp")
}

func TestRunsErrors(t *testing.T) {
	te := newTestEnv(t, "", nil)

	err := te.run(t, "runs")
	assert.ErrorContains(t, err, "no database given")

	db := filepath.Join(te.dir, "empty.db")
	require.NoError(t, te.run(t, "runs", "-db", db))
	assert.Contains(t, te.out.String(), "No runs stored in "+db)

	err = te.run(t, "runs", "-db", db, "-show", "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindRun(t *testing.T) {
	runs := []repository.Run{{ID: "ab12"}, {ID: "ab34"}, {ID: "cd56"}}

	run, err := findRun(runs, "cd")
	require.NoError(t, err)
	assert.Equal(t, "cd56", run.ID)

	run, err = findRun(runs, "ab12")
	require.NoError(t, err)
	assert.Equal(t, "ab12", run.ID)

	_, err = findRun(runs, "ab")
	assert.ErrorContains(t, err, "matches 2 runs")

	_, err = findRun(runs, "zz")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMergeJSONInputs(t *testing.T) {
	te := newTestEnv(t, "", nil)
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.csv"), []byte("x\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.json"),
		[]byte(`{"name":"t","columns":["y"],"rows":[{"y":"2"}]}`), 0o644))

	require.NoError(t, te.app.run(context.Background(), "merge", []string{"-dir", src, "-inputs", "csv,json"}))
	assert.Equal(t, "x,y\n1,\n,2\n", readFile(t, filepath.Join(src, "merge.csv")))
}

func TestMerge(t *testing.T) {
	te := newTestEnv(t, "", nil)
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.csv"), []byte("x\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.csv"), []byte("y\n2\n"), 0o644))

	require.NoError(t, te.app.run(context.Background(), "merge", []string{"-dir", src}))
	assert.Contains(t, te.out.String(), "Merged 2 CSV files into "+filepath.Join(src, "merge.csv"))
	assert.Equal(t, "x,y\n1,\n,2\n", readFile(t, filepath.Join(src, "merge.csv")))
}

func TestMergePromptsForFolder(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.csv"), []byte("x\n1\n"), 0o644))
	te := newTestEnv(t, src+"\n", nil)

	require.NoError(t, te.app.run(context.Background(), "merge", nil))
	assert.FileExists(t, filepath.Join(src, "merge.csv"))
}

func TestPDF(t *testing.T) {
	te := newTestEnv(t, "", nil)
	src := filepath.Join(t.TempDir(), "review.yaml")
	require.NoError(t, os.WriteFile(src, []byte("title: Review\nsections:\n  - title: Intro\n    body: hello\n"), 0o644))

	require.NoError(t, te.app.run(context.Background(), "pdf", []string{src}))

	dst := strings.TrimSuffix(src, ".yaml") + ".pdf"
	assert.FileExists(t, dst)
	assert.Contains(t, te.out.String(), "PDF created successfully at "+dst)

	err := te.app.run(context.Background(), "pdf", nil)
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
