// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	usr, err := user.Current()
	require.NoError(t, err)

	got, err := ExpandHome("~/rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(usr.HomeDir, "rules.yaml"), got)

	got, err = ExpandHome("~")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(usr.HomeDir), got)

	got, err = ExpandHome("/tmp/~rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/~rules.yaml", got)

	_, err = ExpandHome("~no_such_user_for_sure/rules.yaml")
	require.Error(t, err)
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "ops.yaml")
	require.NoError(t, os.WriteFile(filePath, []byte("ops: []\n"), 0o644))

	got, err := ResolveFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, filePath, got)

	_, err = ResolveFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "not found")

	_, err = ResolveFile(dir)
	require.ErrorContains(t, err, "directory")
}
