package mysql

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmc/internal/apply"
	"gmc/internal/core"
)

func leaderboardSchema() *core.MechanicSchema {
	req := &core.GenerationRequest{
		MechanicType: core.MechanicLeaderboard,
		Name:         "Weekly Top",
		Attributes: []core.AttributeSpec{
			{Name: "player_id", Type: core.AttrVarchar, Required: true, Constraints: &core.AttributeConstraints{
				MaxLength:  64,
				Index:      true,
				ForeignKey: &core.ForeignKey{Table: "players", Column: "id"},
			}},
			{Name: "score", Type: core.AttrBigInt, Required: true, Default: int64(0), Constraints: &core.AttributeConstraints{Index: true}},
			{Name: "region", Type: core.AttrVarchar},
		},
	}
	return core.NewMechanicSchema(req, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestGenerateBattlePassTableDefault(t *testing.T) {
	stmt, err := NewMySQLGenerator().GenerateBattlePassTable(core.DefaultFieldMap())
	require.NoError(t, err)

	want := `CREATE TABLE IF NOT EXISTS battle_pass_progress (
  id BIGINT PRIMARY KEY AUTO_INCREMENT,
  user_id VARCHAR(255) NOT NULL,
  username VARCHAR(255) NOT NULL,
  current_tier INT NOT NULL DEFAULT 0,
  total_xp BIGINT NOT NULL DEFAULT 0,
  premium_purchased BOOLEAN NOT NULL DEFAULT FALSE,
  season_id VARCHAR(255) NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  UNIQUE KEY unique_user_season (user_id, season_id),
  INDEX idx_season (season_id),
  INDEX idx_tier (current_tier)
)`
	assert.Equal(t, want, stmt.SQL)
	assert.Equal(t, core.StatementExec, stmt.Kind)
	assert.Empty(t, stmt.Args)
}

func TestGenerateBattlePassTableCustomFields(t *testing.T) {
	fields := core.FieldMap{
		TableName: "summer_pass",
		UserID:    "player",
		Username:  "nick",
		Tier:      "level",
		XP:        "points",
		Premium:   "gold",
		SeasonID:  "season",
	}
	stmt, err := NewMySQLGenerator().GenerateBattlePassTable(fields)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stmt.SQL, "CREATE TABLE IF NOT EXISTS summer_pass (\n"))
	assert.Contains(t, stmt.SQL, "  gold BOOLEAN NOT NULL DEFAULT FALSE,\n")
	assert.Contains(t, stmt.SQL, "  UNIQUE KEY unique_user_season (player, season),\n")
	assert.Contains(t, stmt.SQL, "  INDEX idx_season (season),\n")
	assert.Contains(t, stmt.SQL, "  INDEX idx_tier (level)\n)")
}

func TestGenerateBattlePassTableRejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*core.FieldMap)
	}{
		{"injected table", func(f *core.FieldMap) { f.TableName = "t; DROP TABLE users" }},
		{"reserved table", func(f *core.FieldMap) { f.TableName = "mysql_users" }},
		{"quoted column", func(f *core.FieldMap) { f.Username = "name`" }},
		{"empty column", func(f *core.FieldMap) { f.XP = "" }},
		{"duplicate column", func(f *core.FieldMap) { f.Tier = "USER_ID" }},
		{"generated column", func(f *core.FieldMap) { f.Premium = "created_at" }},
		{"reserved word column", func(f *core.FieldMap) { f.Tier = "rank" }},
		{"reserved word table", func(f *core.FieldMap) { f.TableName = "order" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := core.DefaultFieldMap()
			tt.modify(&fields)
			_, err := NewMySQLGenerator().GenerateBattlePassTable(fields)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidIdentifier)
		})
	}
}

func TestGenerateCreateTable(t *testing.T) {
	stmts, err := NewMySQLGenerator().GenerateCreateTable(leaderboardSchema())
	require.NoError(t, err)
	require.Len(t, stmts, 4)

	assert.Equal(t, `CREATE TABLE IF NOT EXISTS leaderboard_weekly_top (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  player_id VARCHAR(64) NOT NULL,
  score BIGINT NOT NULL DEFAULT 0,
  region VARCHAR(255),
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`, stmts[0].SQL)
	assert.Equal(t, "CREATE INDEX idx_leaderboard_weekly_top_player_id ON leaderboard_weekly_top(player_id)", stmts[1].SQL)
	assert.Equal(t, "CREATE INDEX idx_leaderboard_weekly_top_score ON leaderboard_weekly_top(score)", stmts[2].SQL)
	assert.Equal(t, "ALTER TABLE leaderboard_weekly_top ADD CONSTRAINT fk_leaderboard_weekly_top_player_id "+
		"FOREIGN KEY (player_id) REFERENCES players(id)", stmts[3].SQL)

	for _, stmt := range stmts {
		assert.Equal(t, core.StatementExec, stmt.Kind)
		assert.Zero(t, stmt.Placeholders())
	}
}

func TestGenerateCreateTableDeterministic(t *testing.T) {
	g := NewMySQLGenerator()
	first, err := g.GenerateCreateTable(leaderboardSchema())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := g.GenerateCreateTable(leaderboardSchema())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerateCreateTableNoAttributes(t *testing.T) {
	schema := &core.MechanicSchema{Type: core.MechanicInventory, Name: "Bag"}
	stmts, err := NewMySQLGenerator().GenerateCreateTable(schema)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS inventory_bag (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`, stmts[0].SQL)
}

func TestGenerateCreateTableErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema *core.MechanicSchema
		code   core.Code
	}{
		{
			name: "nil schema",
			code: core.CodeInvalidRequest,
		},
		{
			name:   "name with punctuation",
			schema: &core.MechanicSchema{Type: core.MechanicLeaderboard, Name: "Top-10!"},
			code:   core.CodeInvalidIdentifier,
		},
		{
			name: "attribute name with quote",
			schema: &core.MechanicSchema{Type: core.MechanicLeaderboard, Name: "weekly", Attributes: []core.AttributeSpec{
				{Name: "score'", Type: core.AttrInt},
			}},
			code: core.CodeInvalidIdentifier,
		},
		{
			name: "duplicate attribute",
			schema: &core.MechanicSchema{Type: core.MechanicLeaderboard, Name: "weekly", Attributes: []core.AttributeSpec{
				{Name: "score", Type: core.AttrInt},
				{Name: "SCORE", Type: core.AttrBigInt},
			}},
			code: core.CodeInvalidAttribute,
		},
		{
			name: "unknown type",
			schema: &core.MechanicSchema{Type: core.MechanicLeaderboard, Name: "weekly", Attributes: []core.AttributeSpec{
				{Name: "score", Type: "MONEY"},
			}},
			code: core.CodeInvalidAttribute,
		},
		{
			name: "reserved word attribute",
			schema: &core.MechanicSchema{Type: core.MechanicLeaderboard, Name: "weekly", Attributes: []core.AttributeSpec{
				{Name: "rank", Type: core.AttrInt},
			}},
			code: core.CodeInvalidIdentifier,
		},
		{
			name: "reserved word foreign key column",
			schema: &core.MechanicSchema{Type: core.MechanicLeaderboard, Name: "weekly", Attributes: []core.AttributeSpec{
				{Name: "uid", Type: core.AttrInt, Constraints: &core.AttributeConstraints{
					ForeignKey: &core.ForeignKey{Table: "players", Column: "key"},
				}},
			}},
			code: core.CodeInvalidIdentifier,
		},
		{
			name: "foreign key into a reserved table",
			schema: &core.MechanicSchema{Type: core.MechanicLeaderboard, Name: "weekly", Attributes: []core.AttributeSpec{
				{Name: "uid", Type: core.AttrInt, Constraints: &core.AttributeConstraints{
					ForeignKey: &core.ForeignKey{Table: "mysql_user", Column: "id"},
				}},
			}},
			code: core.CodeInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMySQLGenerator().GenerateCreateTable(tt.schema)
			require.Error(t, err)
			assert.Equal(t, tt.code, core.CodeOf(err))
		})
	}
}

func TestDerivedIdentifierLongNames(t *testing.T) {
	table := core.MustIdentifier("leaderboard_" + strings.Repeat("season", 8))
	col := core.MustIdentifier("highest_score_reached_during_the_whole_season")

	first, err := derivedIdentifier("idx", table, col)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(first.String()), core.MaxIdentifierLength)
	assert.True(t, strings.HasPrefix(first.String(), "idx_leaderboard_"))

	again, err := derivedIdentifier("idx", table, col)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := derivedIdentifier("idx", table, core.MustIdentifier("highest_score_reached_during_the_whole_seasons"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestDerivedIdentifierShortNames(t *testing.T) {
	id, err := derivedIdentifier("fk", core.MustIdentifier("t1"), core.MustIdentifier("c1"))
	require.NoError(t, err)
	assert.Equal(t, "fk_t1_c1", id.String())
}

func TestGenerateDropTable(t *testing.T) {
	stmt := NewMySQLGenerator().GenerateDropTable(core.MustIdentifier("battle_pass_progress"))
	assert.Equal(t, "DROP TABLE IF EXISTS battle_pass_progress", stmt.SQL)
	assert.Equal(t, core.StatementExec, stmt.Kind)
}

func TestGeneratedStatementsPassPreflight(t *testing.T) {
	g := NewMySQLGenerator()

	create, err := g.GenerateCreateTable(leaderboardSchema())
	require.NoError(t, err)
	battlePass, err := g.GenerateBattlePassTable(core.DefaultFieldMap())
	require.NoError(t, err)
	seed, err := g.GenerateSeedInsert(core.DefaultFieldMap(), core.DefaultSeedRows())
	require.NoError(t, err)
	sample := g.GenerateSampleSelect(core.MustIdentifier("battle_pass_progress"), core.IDColumn, 10)

	stmts := append(create, battlePass, seed, sample)
	result := apply.NewStatementAnalyzer(false).AnalyzeStatements(stmts)
	require.NoError(t, result.Err())

	drop := g.GenerateDropTable(core.MustIdentifier("battle_pass_progress"))
	assert.Error(t, apply.NewStatementAnalyzer(false).AnalyzeStatements([]core.Statement{drop}).Err())
	assert.NoError(t, apply.NewStatementAnalyzer(true).AnalyzeStatements([]core.Statement{drop}).Err())
}
