package toml

import "gmc/internal/core"

// tomlBattlePass maps [battle_pass]. Sections left out fall back to the
// default season configuration.
type tomlBattlePass struct {
	Basic    *core.BattlePassBasic    `toml:"basic"`
	Currency *core.BattlePassCurrency `toml:"currency"`
	Rewards  []core.BattlePassReward  `toml:"rewards"`
	Schema   *tomlFieldMap            `toml:"schema"`
}

// tomlFieldMap maps [battle_pass.schema]; empty keys keep the default name.
type tomlFieldMap struct {
	TableName string `toml:"table_name"`
	UserID    string `toml:"user_id"`
	Username  string `toml:"username"`
	Tier      string `toml:"tier"`
	XP        string `toml:"xp"`
	Premium   string `toml:"premium"`
	SeasonID  string `toml:"season_id"`
}

func (tb *tomlBattlePass) convert() core.BattlePassConfig {
	cfg := core.DefaultBattlePassConfig()
	if tb.Basic != nil {
		cfg.Basic = *tb.Basic
	}
	if tb.Currency != nil {
		cfg.Currency = *tb.Currency
	}
	if tb.Rewards != nil {
		cfg.Rewards = tb.Rewards
	}
	if tb.Schema != nil {
		cfg.Schema = tb.Schema.merge(cfg.Schema)
	}
	return cfg
}

func (tf *tomlFieldMap) merge(base core.FieldMap) core.FieldMap {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return core.FieldMap{
		TableName: pick(tf.TableName, base.TableName),
		UserID:    pick(tf.UserID, base.UserID),
		Username:  pick(tf.Username, base.Username),
		Tier:      pick(tf.Tier, base.Tier),
		XP:        pick(tf.XP, base.XP),
		Premium:   pick(tf.Premium, base.Premium),
		SeasonID:  pick(tf.SeasonID, base.SeasonID),
	}
}
