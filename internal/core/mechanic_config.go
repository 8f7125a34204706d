package core

// MechanicConfig is the per-mechanic customization attached to a request.
// The set of implementations is closed: BattlePassConfig for the battle pass,
// GenericConfig for mechanics without a fixed schema.
type MechanicConfig interface {
	MechanicType() MechanicType
	sealed()
}

// BattlePassBasic holds the descriptive settings of a season.
type BattlePassBasic struct {
	DisplayName  string `json:"displayName" toml:"display_name"`
	Description  string `json:"description" toml:"description"`
	MaxTiers     int    `json:"maxTiers" toml:"max_tiers" validate:"gte=0"`
	DurationDays int    `json:"durationDays" toml:"duration_days" validate:"gte=0"`
	StartDate    string `json:"startDate,omitempty" toml:"start_date"`
	EndDate      string `json:"endDate,omitempty" toml:"end_date"`
}

// BattlePassCurrency names the progression currency.
type BattlePassCurrency struct {
	DisplayName     string `json:"displayName" toml:"display_name"`
	DBAttributeName string `json:"dbAttributeName" toml:"db_attribute_name"`
	Symbol          string `json:"symbol" toml:"symbol"`
}

// RewardType classifies a battle-pass reward.
type RewardType string

const (
	RewardCosmetic RewardType = "cosmetic"
	RewardCurrency RewardType = "currency"
	RewardItem     RewardType = "item"
	RewardBoost    RewardType = "boost"
)

// Reward is the payload granted at a tier.
type Reward struct {
	DisplayName string     `json:"displayName,omitempty" toml:"display_name"`
	Description string     `json:"description" toml:"description"`
	Type        RewardType `json:"type" toml:"type" validate:"omitempty,oneof=cosmetic currency item boost"`
	Value       any        `json:"value" toml:"value"`
	ImageURL    string     `json:"imageUrl,omitempty" toml:"image_url"`
}

// BattlePassReward is a reward unlocked at a tier.
type BattlePassReward struct {
	Tier       int    `json:"tier" toml:"tier" validate:"gte=1"`
	XPRequired int64  `json:"xpRequired" toml:"xp_required" validate:"gte=0"`
	Reward     Reward `json:"reward" toml:"reward"`
	IsPremium  bool   `json:"isPremium" toml:"is_premium"`
}

// BattlePassConfig is the strongly typed battle-pass customization.
type BattlePassConfig struct {
	Basic    BattlePassBasic    `json:"basic" toml:"basic"`
	Currency BattlePassCurrency `json:"currency" toml:"currency"`
	Rewards  []BattlePassReward `json:"rewards" toml:"rewards" validate:"dive"`
	Schema   FieldMap           `json:"schema" toml:"schema"`
}

func (BattlePassConfig) MechanicType() MechanicType { return MechanicBattlePass }
func (BattlePassConfig) sealed()                    {}

// GenericConfig carries no extra settings; the attribute list of the request
// is the whole description.
type GenericConfig struct {
	Type MechanicType `json:"type"`
}

func (c GenericConfig) MechanicType() MechanicType { return c.Type }
func (GenericConfig) sealed()                      {}

// BattlePassTemplate is the starting point offered to battle-pass editors.
type BattlePassTemplate struct {
	Name           string             `json:"name"`
	MaxTiers       int                `json:"maxTiers"`
	SeasonDuration int                `json:"seasonDuration"`
	CurrencyType   string             `json:"currencyType"`
	Rewards        []BattlePassReward `json:"rewards"`
	UserFields     []AttributeSpec    `json:"userFields"`
}

// DefaultBattlePassTemplate returns the stock season-one template.
func DefaultBattlePassTemplate() BattlePassTemplate {
	maxLen := func(n int, index bool) *AttributeConstraints {
		return &AttributeConstraints{MaxLength: n, Index: index}
	}
	return BattlePassTemplate{
		Name:           "Season 1 Battle Pass",
		MaxTiers:       100,
		SeasonDuration: 90,
		CurrencyType:   "XP",
		Rewards: []BattlePassReward{
			{Tier: 1, XPRequired: 100, Reward: Reward{Type: RewardCosmetic, Value: "basic_skin", Description: "Basic Character Skin"}},
			{Tier: 5, XPRequired: 500, Reward: Reward{Type: RewardCurrency, Value: 250, Description: "250 Coins"}},
			{Tier: 10, XPRequired: 1000, Reward: Reward{Type: RewardCosmetic, Value: "premium_weapon", Description: "Premium Weapon Skin"}, IsPremium: true},
		},
		UserFields: []AttributeSpec{
			{Name: "user_id", Type: AttrBigInt, Required: true, Constraints: &AttributeConstraints{Unique: true, Index: true}},
			{Name: "username", Type: AttrVarchar, Required: true, Constraints: maxLen(50, true)},
			{Name: "current_tier", Type: AttrInt, Required: true, Default: 1},
			{Name: "total_xp", Type: AttrBigInt, Required: true, Default: 0},
			{Name: "premium_purchased", Type: AttrBoolean, Required: true, Default: false},
			{Name: "season_id", Type: AttrVarchar, Required: true, Constraints: maxLen(20, false)},
		},
	}
}

// DefaultBattlePassConfig returns a config whose schema is DefaultFieldMap.
func DefaultBattlePassConfig() BattlePassConfig {
	tpl := DefaultBattlePassTemplate()
	return BattlePassConfig{
		Basic: BattlePassBasic{
			DisplayName:  tpl.Name,
			Description:  "Seasonal progression with free and premium tracks",
			MaxTiers:     tpl.MaxTiers,
			DurationDays: tpl.SeasonDuration,
		},
		Currency: BattlePassCurrency{DisplayName: "Experience", DBAttributeName: "total_xp", Symbol: tpl.CurrencyType},
		Rewards:  tpl.Rewards,
		Schema:   DefaultFieldMap(),
	}
}
