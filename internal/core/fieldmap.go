package core

import (
	"fmt"
	"strings"
)

// FieldMap binds the seven logical battle-pass roles to physical names.
type FieldMap struct {
	TableName string `json:"tableName" toml:"table_name"`
	UserID    string `json:"userIdField" toml:"user_id"`
	Username  string `json:"usernameField" toml:"username"`
	Tier      string `json:"tierField" toml:"tier"`
	XP        string `json:"xpField" toml:"xp"`
	Premium   string `json:"premiumField" toml:"premium"`
	SeasonID  string `json:"seasonIdField" toml:"season_id"`
}

// DefaultFieldMap returns the field map used when a caller supplies none.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		TableName: "battle_pass_progress",
		UserID:    "user_id",
		Username:  "username",
		Tier:      "current_tier",
		XP:        "total_xp",
		Premium:   "premium_purchased",
		SeasonID:  "season_id",
	}
}

// FieldIdentifiers are the sanitized names of a FieldMap.
type FieldIdentifiers struct {
	Table    Identifier
	UserID   Identifier
	Username Identifier
	Tier     Identifier
	XP       Identifier
	Premium  Identifier
	SeasonID Identifier
}

// Columns returns the six data columns in insert order.
func (f FieldIdentifiers) Columns() []Identifier {
	return []Identifier{f.UserID, f.Username, f.Tier, f.XP, f.Premium, f.SeasonID}
}

// IDColumn is the auto-increment key every generated table starts with.
var IDColumn = MustIdentifier("id")

// fixedColumns are generated alongside the field map and must not collide with it.
var fixedColumns = []string{"id", "created_at", "updated_at"}

// Identifiers sanitizes every name of the map. All seven must be valid,
// not reserved words, and pairwise distinct (case-insensitively, as MySQL column names are), and the
// table name must not use a reserved prefix.
func (m FieldMap) Identifiers() (FieldIdentifiers, error) {
	var out FieldIdentifiers
	var err error

	if out.Table, err = SanitizeTableName(m.TableName); err != nil {
		return FieldIdentifiers{}, fmt.Errorf("table name: %w", err)
	}

	fields := []struct {
		role string
		name string
		dst  *Identifier
	}{
		{"userId", m.UserID, &out.UserID},
		{"username", m.Username, &out.Username},
		{"tier", m.Tier, &out.Tier},
		{"xp", m.XP, &out.XP},
		{"premium", m.Premium, &out.Premium},
		{"seasonId", m.SeasonID, &out.SeasonID},
	}

	seen := map[string]string{strings.ToLower(m.TableName): "tableName"}
	for _, fixed := range fixedColumns {
		seen[fixed] = fixed
	}
	for _, f := range fields {
		id, err := SanitizeColumn(f.name)
		if err != nil {
			return FieldIdentifiers{}, fmt.Errorf("%s field: %w", f.role, err)
		}
		key := strings.ToLower(f.name)
		if prev, dup := seen[key]; dup {
			return FieldIdentifiers{}, Errorf(CodeInvalidIdentifier, "%s field %q collides with %s", f.role, f.name, prev)
		}
		seen[key] = f.role
		*f.dst = id
	}

	return out, nil
}

// SeedRow is one player's progress row used to seed a battle-pass table.
type SeedRow struct {
	UserID   string `json:"userId" toml:"user_id" validate:"required,max=255"`
	Username string `json:"username" toml:"username" validate:"required,max=255"`
	Tier     int    `json:"tier" toml:"tier" validate:"gte=0,lte=2147483647"`
	XP       int64  `json:"xp" toml:"xp" validate:"gte=0"`
	Premium  bool   `json:"premium" toml:"premium"`
	SeasonID string `json:"seasonId" toml:"season_id" validate:"required,max=255"`
}

// Values returns the row as bound values in FieldIdentifiers.Columns order.
func (r SeedRow) Values() []Value {
	return []Value{
		StringValue(r.UserID),
		StringValue(r.Username),
		IntValue(int64(r.Tier)),
		IntValue(r.XP),
		BoolValue(r.Premium),
		StringValue(r.SeasonID),
	}
}

// DefaultSeedRows returns the demonstration players used for seeding.
func DefaultSeedRows() []SeedRow {
	return []SeedRow{
		{UserID: "user_001", Username: "PlayerOne", Tier: 15, XP: 1500, Premium: true, SeasonID: "season_2024_01"},
		{UserID: "user_002", Username: "GamerTwo", Tier: 8, XP: 800, Premium: false, SeasonID: "season_2024_01"},
		{UserID: "user_003", Username: "ProPlayer", Tier: 25, XP: 2500, Premium: true, SeasonID: "season_2024_01"},
		{UserID: "user_004", Username: "CasualGamer", Tier: 3, XP: 300, Premium: false, SeasonID: "season_2024_01"},
		{UserID: "user_005", Username: "CompetitivePro", Tier: 50, XP: 5000, Premium: true, SeasonID: "season_2024_01"},
	}
}
