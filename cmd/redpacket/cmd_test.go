package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSplitCmd(t *testing.T) {
	out, err := run(t, newSplitCmd(), "--amount", "100", "--recipients", "10", "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "#10")
	assert.Contains(t, out, "sum      100.00")

	again, err := run(t, newSplitCmd(), "-a", "100", "-n", "10", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSplitCmd_RecordsToSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "split.db")
	_, err := run(t, newSplitCmd(), "-a", "5", "-n", "3", "--db", db)
	require.NoError(t, err)
	assert.FileExists(t, db)
}

func TestRecordSplit(t *testing.T) {
	db := filepath.Join(t.TempDir(), "split.db")
	shares := []decimal.Decimal{
		decimal.RequireFromString("1.10"),
		decimal.RequireFromString("2.40"),
		decimal.RequireFromString("1.50"),
	}
	require.NoError(t, recordSplit(db, decimal.RequireFromString("5.00"), shares))

	err := recordSplit(db, decimal.RequireFromString("6.00"), shares)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "totalling 5.00, want 3 totalling 6.00")
}

func TestSplitCmd_Invalid(t *testing.T) {
	_, err := run(t, newSplitCmd(), "--amount", "0", "--recipients", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pool")

	_, err = run(t, newSplitCmd(), "--amount", "10", "--recipients", "0")
	assert.Error(t, err)

	_, err = run(t, newSplitCmd(), "--amount", "ten", "--recipients", "2")
	assert.Error(t, err)

	_, err = run(t, newSplitCmd(), "--amount", "10")
	assert.Error(t, err)
}

func TestMonkeySortCmd(t *testing.T) {
	out, err := run(t, newMonkeySortCmd(), "3", "1", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[1 2 3]"), out)

	_, err = run(t, newMonkeySortCmd(), "3", "x")
	assert.Error(t, err)
}
