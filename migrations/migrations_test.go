package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEverySourceVersionHasBothDirections(t *testing.T) {
	src, err := iofs.New(FS, ".")
	require.NoError(t, err)
	defer src.Close()

	v, err := src.First()
	require.NoError(t, err)
	for {
		up, _, err := src.ReadUp(v)
		require.NoError(t, err, "version %d up", v)
		_ = up.Close()
		down, _, err := src.ReadDown(v)
		require.NoError(t, err, "version %d down", v)
		_ = down.Close()

		next, err := src.Next(v)
		if err != nil {
			break
		}
		v = next
	}
}

func TestInitCreatesCoreTables(t *testing.T) {
	raw, err := fs.ReadFile(FS, "0001_init.up.sql")
	require.NoError(t, err)
	sql := string(raw)

	for _, table := range []string{"users", "contractor_billings", "contractor_subscriptions", "webhook_events", "transactions"} {
		assert.True(t, strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table+" ("), table)
	}
	assert.Contains(t, sql, "UNIQUE KEY ux_contractor_billings_user (user_id)")
}
