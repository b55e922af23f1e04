package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func testApp(out *bytes.Buffer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = &bytes.Buffer{}
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func TestApp_RunsOnEmptyHistory(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "history.db")

	require.NoError(t, testApp(&out).Run([]string{"cjkfreq", "runs", "--db", path}))
	assert.Equal(t, "No runs found\n", out.String())
}

func TestApp_ShowWithoutRuns(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "history.db")

	err := testApp(&out).Run([]string{"cjkfreq", "show", "--db", path})
	assert.ErrorContains(t, err, "no runs found")
	assert.Empty(t, out.String())
}

func TestApp_CountWithoutFiles(t *testing.T) {
	var out bytes.Buffer

	err := testApp(&out).Run([]string{"cjkfreq", "-q"})
	var coder cli.ExitCoder
	require.ErrorAs(t, err, &coder)
	assert.Equal(t, 2, coder.ExitCode())
	assert.Empty(t, out.String())
}
