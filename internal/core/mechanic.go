// Package core contains the domain model of the schema engine: game mechanic
// descriptions, the battle-pass field map, introspection results and the
// error taxonomy shared by every other package.
package core

import (
	"fmt"
	"strings"
	"time"
)

// MechanicType identifies one of the fixed game-system categories used to
// namespace generated schemas.
type MechanicType string

const (
	MechanicBattlePass        MechanicType = "battle_pass"
	MechanicLeaderboard       MechanicType = "leaderboard"
	MechanicAchievementSystem MechanicType = "achievement_system"
	MechanicInventory         MechanicType = "inventory"
	MechanicCurrencySystem    MechanicType = "currency_system"
	MechanicUserProfile       MechanicType = "user_profile"
)

// SupportedMechanicTypes returns all mechanic types in catalog order.
func SupportedMechanicTypes() []MechanicType {
	return []MechanicType{
		MechanicBattlePass,
		MechanicLeaderboard,
		MechanicAchievementSystem,
		MechanicInventory,
		MechanicCurrencySystem,
		MechanicUserProfile,
	}
}

// IsValidMechanicType reports whether t is a recognized mechanic type.
func IsValidMechanicType(t string) bool {
	for _, supported := range SupportedMechanicTypes() {
		if string(supported) == t {
			return true
		}
	}
	return false
}

// MechanicStatus tells whether a mechanic has a dedicated editor yet.
type MechanicStatus string

const (
	StatusAvailable  MechanicStatus = "available"
	StatusComingSoon MechanicStatus = "coming_soon"
)

// MechanicInfo is a catalog entry describing a mechanic type.
type MechanicInfo struct {
	Type        MechanicType   `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      MechanicStatus `json:"status"`
	Features    []string       `json:"features"`
}

// MechanicCatalog returns the catalog entries in the order of SupportedMechanicTypes.
func MechanicCatalog() []MechanicInfo {
	return []MechanicInfo{
		{
			Type:        MechanicBattlePass,
			Title:       "Battle Pass System",
			Description: "Seasonal progression systems with tiers, rewards, and premium tracks",
			Status:      StatusAvailable,
			Features:    []string{"Tier progression", "Reward management", "Premium tracks", "Season management"},
		},
		{
			Type:        MechanicLeaderboard,
			Title:       "Leaderboard System",
			Description: "Competitive ranking systems with real-time updates",
			Status:      StatusComingSoon,
			Features:    []string{"Real-time rankings", "Multiple categories", "Historical data", "Seasonal resets"},
		},
		{
			Type:        MechanicAchievementSystem,
			Title:       "Achievement System",
			Description: "Achievement and badge systems to increase player engagement",
			Status:      StatusComingSoon,
			Features:    []string{"Badges", "Progress tracking", "Hidden achievements", "Rewards"},
		},
		{
			Type:        MechanicInventory,
			Title:       "Inventory System",
			Description: "Item storage, stacking, and equipment management",
			Status:      StatusComingSoon,
			Features:    []string{"Item stacking", "Equipment slots", "Capacity limits", "Item metadata"},
		},
		{
			Type:        MechanicCurrencySystem,
			Title:       "Currency System",
			Description: "Virtual currencies with balances and transaction history",
			Status:      StatusComingSoon,
			Features:    []string{"Multiple currencies", "Balances", "Transaction log", "Exchange rates"},
		},
		{
			Type:        MechanicUserProfile,
			Title:       "User Profile",
			Description: "Player profiles with stats, preferences, and progression",
			Status:      StatusComingSoon,
			Features:    []string{"Player stats", "Preferences", "Avatars", "Progression"},
		},
	}
}

// AttributeType is the abstract column type of a mechanic attribute.
type AttributeType string

const (
	AttrVarchar  AttributeType = "VARCHAR"
	AttrInt      AttributeType = "INT"
	AttrBigInt   AttributeType = "BIGINT"
	AttrDecimal  AttributeType = "DECIMAL"
	AttrBoolean  AttributeType = "BOOLEAN"
	AttrDate     AttributeType = "DATE"
	AttrDatetime AttributeType = "DATETIME"
	AttrText     AttributeType = "TEXT"
	AttrJSON     AttributeType = "JSON"
)

// SupportedAttributeTypes returns all attribute types.
func SupportedAttributeTypes() []AttributeType {
	return []AttributeType{
		AttrVarchar, AttrInt, AttrBigInt, AttrDecimal, AttrBoolean,
		AttrDate, AttrDatetime, AttrText, AttrJSON,
	}
}

// IsNumeric reports whether t holds numbers.
func (t AttributeType) IsNumeric() bool {
	return t == AttrInt || t == AttrBigInt || t == AttrDecimal
}

// ParseAttributeType resolves s case-insensitively.
func ParseAttributeType(s string) (AttributeType, bool) {
	upper := AttributeType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range SupportedAttributeTypes() {
		if t == upper {
			return t, true
		}
	}
	return "", false
}

// ForeignKey points an attribute at a column of another table.
type ForeignKey struct {
	Table  string `json:"table" toml:"table"`
	Column string `json:"column" toml:"column"`
}

// AttributeConstraints are optional modifiers of an attribute.
type AttributeConstraints struct {
	MaxLength  int         `json:"maxLength,omitempty" toml:"max_length"`
	MinValue   *float64    `json:"minValue,omitempty" toml:"min_value"`
	MaxValue   *float64    `json:"maxValue,omitempty" toml:"max_value"`
	Unique     bool        `json:"unique,omitempty" toml:"unique"`
	Index      bool        `json:"index,omitempty" toml:"index"`
	ForeignKey *ForeignKey `json:"foreignKey,omitempty" toml:"foreign_key"`
}

// AttributeSpec describes one typed column of a mechanic.
type AttributeSpec struct {
	Name     string        `json:"name" validate:"required"`
	Type     AttributeType `json:"type" validate:"required"`
	Required bool          `json:"required"`

	// Default is an optional scalar: string, bool, or a number
	// (int, int64, float64 as produced by the TOML and JSON decoders).
	Default any `json:"defaultValue,omitempty"`

	Constraints *AttributeConstraints `json:"constraints,omitempty"`
}

// HasIndex reports whether the attribute asks for a companion index.
func (a *AttributeSpec) HasIndex() bool {
	return a.Constraints != nil && a.Constraints.Index
}

// IsUnique reports whether the attribute carries a UNIQUE column constraint.
func (a *AttributeSpec) IsUnique() bool {
	return a.Constraints != nil && a.Constraints.Unique
}

// MechanicSchema is the logical description produced for a generation request.
// It is immutable once returned.
type MechanicSchema struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        MechanicType    `json:"type"`
	Description string          `json:"description"`
	Attributes  []AttributeSpec `json:"attributes"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewMechanicSchema builds the schema for req at the given instant.
func NewMechanicSchema(req *GenerationRequest, now time.Time) *MechanicSchema {
	attrs := make([]AttributeSpec, len(req.Attributes))
	copy(attrs, req.Attributes)
	return &MechanicSchema{
		ID:          fmt.Sprintf("%s_%d", req.MechanicType, now.UnixMilli()),
		Name:        req.Name,
		Type:        req.MechanicType,
		Description: fmt.Sprintf("Generated %s schema", strings.Replace(string(req.MechanicType), "_", " ", 1)),
		Attributes:  attrs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TableSlug is the physical table name text for a schema: the mechanic type
// followed by the lowercased name with whitespace runs replaced by "_".
// The result still has to pass Sanitize.
func (s *MechanicSchema) TableSlug() string {
	return string(s.Type) + "_" + strings.Join(strings.Fields(strings.ToLower(s.Name)), "_")
}

// GenerationRequest asks for the schema artifacts of a mechanic.
type GenerationRequest struct {
	MechanicType MechanicType    `json:"mechanicType" validate:"required"`
	Name         string          `json:"name" validate:"required,max=128"`
	Attributes   []AttributeSpec `json:"customAttributes" validate:"dive"`
	Config       MechanicConfig  `json:"-"`
}
