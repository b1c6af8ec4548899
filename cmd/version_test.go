package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdook/engage/pkg/buildinfo"
)

func TestVersionCommand_Text(t *testing.T) {
	versionOutputJSON = false

	cmd := NewVersionCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "engage")
	assert.Contains(t, out.String(), buildinfo.Version)
}

func TestVersionCommand_JSON(t *testing.T) {
	versionOutputJSON = false

	cmd := NewVersionCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--output-json"})

	require.NoError(t, cmd.Execute())

	var info buildinfo.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "engage", info.ServiceName)
	assert.Equal(t, buildinfo.Version, info.Version)
}
