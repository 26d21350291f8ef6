package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPeople_FinderOutput(t *testing.T) {
	in := strings.NewReader(`{"people":[{"fullName":"Ivan Petrov","roleTitle":"CEO","sources":[]}],"debugText":"x"}`)
	people, err := readPeople(in, "-")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Ivan Petrov", people[0].FullName)
}

func TestReadPeople_BareArrayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"full_name":"Anna Smirnova","role_title":"CFO"}]`), 0o600))

	people, err := readPeople(nil, path)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "CFO", people[0].RoleTitle)
}

func TestReadPeople_Invalid(t *testing.T) {
	_, err := readPeople(strings.NewReader("nope"), "-")
	assert.Error(t, err)

	_, err = readPeople(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPrintJSON_KeepsMarkup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]string{"html": "<h3>A & B</h3>"}))
	assert.Equal(t, "{\n  \"html\": \"<h3>A & B</h3>\"\n}\n", buf.String())
}
