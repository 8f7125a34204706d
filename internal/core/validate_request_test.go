package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     *GenerationRequest
		code    Code
		message string
	}{
		{
			name: "valid leaderboard",
			req: &GenerationRequest{MechanicType: MechanicLeaderboard, Name: "Weekly", Attributes: []AttributeSpec{
				{Name: "score", Type: AttrInt, Required: true, Default: 0},
				{Name: "title", Type: "varchar", Default: "rookie", Constraints: &AttributeConstraints{MaxLength: 20}},
			}},
		},
		{
			name: "valid battle pass with config",
			req:  &GenerationRequest{MechanicType: MechanicBattlePass, Name: "Season", Config: DefaultBattlePassConfig()},
		},
		{
			name: "nil request",
			code: CodeInvalidRequest,
		},
		{
			name:    "missing type",
			req:     &GenerationRequest{Name: "x"},
			code:    CodeInvalidRequest,
			message: "MechanicType",
		},
		{
			name:    "unknown type",
			req:     &GenerationRequest{MechanicType: "casino", Name: "x"},
			code:    CodeInvalidRequest,
			message: "unsupported mechanic type",
		},
		{
			name:    "blank name",
			req:     &GenerationRequest{MechanicType: MechanicInventory, Name: "   "},
			code:    CodeInvalidRequest,
			message: "name is empty",
		},
		{
			name:    "config for another mechanic",
			req:     &GenerationRequest{MechanicType: MechanicLeaderboard, Name: "x", Config: DefaultBattlePassConfig()},
			code:    CodeInvalidRequest,
			message: "config is for",
		},
		{
			name: "reward with unknown type",
			req: &GenerationRequest{MechanicType: MechanicBattlePass, Name: "x", Config: BattlePassConfig{
				Rewards: []BattlePassReward{{Tier: 1, Reward: Reward{Type: "lootbox"}}},
			}},
			code: CodeInvalidRequest,
		},
		{
			name: "attribute with bad name",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "item name", Type: AttrVarchar},
			}},
			code:    CodeInvalidIdentifier,
			message: "attribute 0",
		},
		{
			name: "attribute shadows generated column",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "Created_At", Type: AttrDatetime},
			}},
			code:    CodeInvalidAttribute,
			message: "collides with a generated column",
		},
		{
			name: "duplicate attribute",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "qty", Type: AttrInt},
				{Name: "QTY", Type: AttrInt},
			}},
			code:    CodeInvalidAttribute,
			message: "duplicate attribute name",
		},
		{
			name: "unsupported type",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "qty", Type: "TINYINT"},
			}},
			code:    CodeInvalidAttribute,
			message: "unsupported type",
		},
		{
			name: "string default on number",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "qty", Type: AttrInt, Default: "1"},
			}},
			code:    CodeInvalidAttribute,
			message: "string default is not compatible with INT",
		},
		{
			name: "bool default on text",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "note", Type: AttrText, Default: true},
			}},
			code:    CodeInvalidAttribute,
			message: "boolean default",
		},
		{
			name: "negative max length",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "note", Type: AttrVarchar, Constraints: &AttributeConstraints{MaxLength: -1}},
			}},
			code:    CodeInvalidAttribute,
			message: "maxLength",
		},
		{
			name: "inverted range",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "qty", Type: AttrInt, Constraints: &AttributeConstraints{MinValue: ptr(10.0), MaxValue: ptr(1.0)}},
			}},
			code:    CodeInvalidAttribute,
			message: "exceeds maxValue",
		},
		{
			name: "reserved word attribute",
			req: &GenerationRequest{MechanicType: MechanicLeaderboard, Name: "x", Attributes: []AttributeSpec{
				{Name: "order", Type: AttrInt},
			}},
			code:    CodeInvalidIdentifier,
			message: "reserved word",
		},
		{
			name: "reserved word foreign key column",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "owner", Type: AttrBigInt, Constraints: &AttributeConstraints{
					ForeignKey: &ForeignKey{Table: "players", Column: "key"},
				}},
			}},
			code:    CodeInvalidIdentifier,
			message: "foreign key column",
		},
		{
			name: "foreign key column injection",
			req: &GenerationRequest{MechanicType: MechanicInventory, Name: "x", Attributes: []AttributeSpec{
				{Name: "owner", Type: AttrBigInt, Constraints: &AttributeConstraints{
					ForeignKey: &ForeignKey{Table: "players", Column: "id) ON DELETE CASCADE"},
				}},
			}},
			code:    CodeInvalidIdentifier,
			message: "foreign key column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, CodeOf(err))
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestValidateSeedRows(t *testing.T) {
	assert.ErrorIs(t, ValidateSeedRows(nil), ErrInvalidRequest)

	rows := []SeedRow{
		{UserID: "u1", Username: "One", SeasonID: "s1"},
		{UserID: "u2", Username: "", SeasonID: "s1"},
	}
	err := ValidateSeedRows(rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "seed row 1")

	rows[1].Username = "Two"
	rows[1].Tier = -1
	assert.ErrorIs(t, ValidateSeedRows(rows), ErrInvalidRequest)

	rows[1].Tier = 3_000_000_000
	assert.ErrorIs(t, ValidateSeedRows(rows), ErrInvalidRequest)

	rows[1].Tier = 2147483647
	assert.NoError(t, ValidateSeedRows(rows))

	rows[1].Tier = 0
	assert.NoError(t, ValidateSeedRows(rows))
}

func TestValidateSeedRowsCount(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"one row", 1, false},
		{"at the limit", MaxSeedRows, false},
		{"over the limit", MaxSeedRows + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]SeedRow, tt.count)
			for i := range rows {
				rows[i] = SeedRow{UserID: "u", Username: "n", SeasonID: "s"}
			}
			err := ValidateSeedRows(rows)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				assert.Contains(t, err.Error(), "exceed the limit")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewMechanicSchema(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	req := &GenerationRequest{
		MechanicType: MechanicAchievementSystem,
		Name:         "Daily  Quests",
		Attributes:   []AttributeSpec{{Name: "quest", Type: AttrVarchar}},
	}
	schema := NewMechanicSchema(req, now)

	assert.Equal(t, "achievement_system_1709294400000", schema.ID)
	assert.Equal(t, "Generated achievement system schema", schema.Description)
	assert.Equal(t, "achievement_system_daily_quests", schema.TableSlug())
	assert.Equal(t, now, schema.CreatedAt)
	assert.Equal(t, now, schema.UpdatedAt)

	req.Attributes[0].Name = "changed"
	assert.Equal(t, "quest", schema.Attributes[0].Name)
}

func TestMechanicCatalogMatchesTypes(t *testing.T) {
	catalog := MechanicCatalog()
	types := SupportedMechanicTypes()
	require.Len(t, catalog, len(types))
	for i, info := range catalog {
		assert.Equal(t, types[i], info.Type)
		assert.True(t, IsValidMechanicType(string(info.Type)))
	}
	assert.False(t, IsValidMechanicType("BATTLE_PASS"))
}

func TestParseAttributeType(t *testing.T) {
	got, ok := ParseAttributeType(" json ")
	assert.True(t, ok)
	assert.Equal(t, AttrJSON, got)

	_, ok = ParseAttributeType("blob")
	assert.False(t, ok)
}

func TestMechanicConfigIsSealed(t *testing.T) {
	var cfg MechanicConfig = DefaultBattlePassConfig()
	assert.Equal(t, MechanicBattlePass, cfg.MechanicType())

	cfg = GenericConfig{Type: MechanicInventory}
	assert.Equal(t, MechanicInventory, cfg.MechanicType())
}
