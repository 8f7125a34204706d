package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmc/internal/core"
	"gmc/internal/dialect"
	"gmc/internal/introspect"
	"gmc/internal/testutil"
)

type failingPool struct {
	calls int
}

func (p *failingPool) Conn(context.Context) (*sql.Conn, error) {
	p.calls++
	return nil, errors.New("no store")
}

func TestRegistered(t *testing.T) {
	i, err := introspect.New(dialect.MySQL, &failingPool{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, i)
}

func TestValidationHappensBeforeStore(t *testing.T) {
	pool := &failingPool{}
	i := New(pool, nil)
	ctx := context.Background()

	_, err := i.List(ctx, "bad pattern;")
	assert.ErrorIs(t, err, core.ErrInvalidIdentifier)

	_, err = i.Describe(ctx, core.Identifier{})
	assert.ErrorIs(t, err, core.ErrInvalidIdentifier)

	_, err = i.Drop(ctx, core.MustIdentifier("mysql_users"))
	assert.ErrorIs(t, err, core.ErrInvalidIdentifier)

	assert.Zero(t, pool.calls)
}

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `battle\_pass`, likeEscaper.Replace("battle_pass"))
	assert.Equal(t, `a\%b\\c`, likeEscaper.Replace(`a%b\c`))
}

func TestIntrospectorIntegration(t *testing.T) {
	tc := testutil.StartMySQL(t)
	ctx := context.Background()
	i := New(tc.DB, nil)

	_, err := tc.DB.Exec(`CREATE TABLE battle_pass_demo (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		user_id VARCHAR(255) NOT NULL,
		season_id VARCHAR(255) NOT NULL,
		tier INT NOT NULL DEFAULT 0,
		UNIQUE KEY unique_user_season (user_id, season_id),
		INDEX idx_tier (tier)
	)`)
	require.NoError(t, err)
	_, err = tc.DB.Exec(`CREATE TABLE leaderboard_weekly (id BIGINT PRIMARY KEY AUTO_INCREMENT)`)
	require.NoError(t, err)
	_, err = tc.DB.Exec(`CREATE TABLE battlexpass (id INT PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = tc.DB.Exec("INSERT INTO battle_pass_demo (user_id, season_id, tier) VALUES ('user', 'season', 0)")
	require.NoError(t, err)
	_, err = tc.DB.Exec("INSERT INTO battle_pass_demo (user_id, season_id, tier) VALUES ('user', 'season', 9)")
	require.Error(t, err, "unique key must reject a second row per user and season")
	_, err = tc.DB.Exec("INSERT INTO battle_pass_demo (user_id, season_id, tier) VALUES ('a','s',1),('b','s',2),('c','s',3),('d','s',4),('e','s',5),('f','s',6)")
	require.NoError(t, err)

	t.Run("list filters by pattern with literal underscore", func(t *testing.T) {
		tables, err := i.List(ctx, "battle_pass")
		require.NoError(t, err)
		require.Len(t, tables, 1)
		assert.Equal(t, "battle_pass_demo", tables[0].TableName)
		assert.Equal(t, "InnoDB", tables[0].Engine)
		assert.NotEmpty(t, tables[0].Collation)
		assert.NotNil(t, tables[0].CreatedAt)
	})

	t.Run("empty pattern lists everything", func(t *testing.T) {
		tables, err := i.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, tables, 3)
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		tables, err := i.List(ctx, "inventory")
		require.NoError(t, err)
		assert.NotNil(t, tables)
		assert.Empty(t, tables)
	})

	t.Run("describe reports columns indexes and samples", func(t *testing.T) {
		d, err := i.Describe(ctx, core.MustIdentifier("battle_pass_demo"))
		require.NoError(t, err)

		assert.EqualValues(t, 7, d.RowCount)
		assert.Len(t, d.SampleRows, 5)
		require.Len(t, d.Columns, 4)
		assert.Equal(t, "id", d.Columns[0].Name)
		assert.Equal(t, "PRI", d.Columns[0].Key)
		assert.Equal(t, "varchar(255)", d.Columns[1].Type)
		assert.False(t, d.Columns[1].Nullable)

		tier := d.FindColumn("tier")
		require.NotNil(t, tier)
		require.NotNil(t, tier.Default)
		assert.Equal(t, "0", *tier.Default)

		assert.Equal(t, []string{"user_id", "season_id"}, d.UniqueKeyColumns("unique_user_season"))
		cols, unique := d.IndexColumns("idx_tier")
		assert.Equal(t, []string{"tier"}, cols)
		assert.False(t, unique)
		assert.Contains(t, d.SampleRows[0], "season_id")
	})

	t.Run("describe missing table is not found", func(t *testing.T) {
		_, err := i.Describe(ctx, core.MustIdentifier("inventory_missing"))
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("drop removes the table and describe then fails", func(t *testing.T) {
		res, err := i.Drop(ctx, core.MustIdentifier("leaderboard_weekly"))
		require.NoError(t, err)
		assert.Equal(t, "leaderboard_weekly", res.TableName)
		assert.False(t, res.DroppedAt.IsZero())
		assert.False(t, tc.TableExists(t, "leaderboard_weekly"))

		_, err = i.Describe(ctx, core.MustIdentifier("leaderboard_weekly"))
		assert.ErrorIs(t, err, core.ErrNotFound)

		_, err = i.Drop(ctx, core.MustIdentifier("leaderboard_weekly"))
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("describe samples rows in id order", func(t *testing.T) {
		d, err := i.Describe(ctx, core.MustIdentifier("battle_pass_demo"))
		require.NoError(t, err)
		require.Len(t, d.SampleRows, 5)
		assert.Equal(t, "user", d.SampleRows[0]["user_id"])
		assert.Equal(t, "a", d.SampleRows[1]["user_id"])
	})

	t.Run("describe table without id column", func(t *testing.T) {
		_, err := tc.DB.Exec(`CREATE TABLE notes_plain (body VARCHAR(20))`)
		require.NoError(t, err)
		_, err = tc.DB.Exec(`INSERT INTO notes_plain (body) VALUES ('x')`)
		require.NoError(t, err)

		d, err := i.Describe(ctx, core.MustIdentifier("notes_plain"))
		require.NoError(t, err)
		assert.Len(t, d.SampleRows, 1)
	})

	t.Run("views are not tables", func(t *testing.T) {
		_, err := tc.DB.Exec(`CREATE VIEW battle_pass_view AS SELECT id, user_id FROM battle_pass_demo`)
		require.NoError(t, err)

		_, err = i.Describe(ctx, core.MustIdentifier("battle_pass_view"))
		assert.ErrorIs(t, err, core.ErrNotFound)

		_, err = i.Drop(ctx, core.MustIdentifier("battle_pass_view"))
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.True(t, tc.TableExists(t, "battle_pass_view"))
	})

	t.Run("server info", func(t *testing.T) {
		info, err := i.ServerInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, FlavorMySQL, info.Flavor)
		assert.Equal(t, testutil.Database, info.Database)
		assert.NotEmpty(t, info.Version)
	})
}
