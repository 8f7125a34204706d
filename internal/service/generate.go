package service

import (
	"fmt"

	"gmc/internal/codegen"
	"gmc/internal/core"
)

// Artifacts are the side-effect free outputs of a generation request.
type Artifacts struct {
	Schema        *core.MechanicSchema `json:"schema"`
	TableName     string               `json:"tableName"`
	DDL           string               `json:"migrationSql"`
	Statements    []core.Statement     `json:"statements"`
	GeneratedCode string               `json:"functionsCode"`
	PreviewData   Preview              `json:"previewData"`

	// Set only for battle-pass requests that carry a BattlePassConfig.
	BattlePassDDL string `json:"battlePassSql,omitempty"`
	SeedPreview   string `json:"seedPreview,omitempty"`
}

// Preview is example data showing what a generated mechanic holds.
type Preview struct {
	SampleUser map[string]any         `json:"sampleUser,omitempty"`
	NextReward *core.BattlePassReward `json:"nextReward,omitempty"`
	Message    string                 `json:"message,omitempty"`
}

const previewUnavailable = "Preview data not available for this mechanic type"

// GenerateSchemaArtifacts validates req and renders its schema, DDL script,
// repository code and preview data. Nothing is sent to the store.
func (s *Service) GenerateSchemaArtifacts(req *core.GenerationRequest) (*Artifacts, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	schema := core.NewMechanicSchema(req, s.now())
	table, err := s.generator.TableName(schema)
	if err != nil {
		return nil, err
	}
	stmts, err := s.generator.GenerateCreateTable(schema)
	if err != nil {
		return nil, err
	}
	code, err := codegen.Generate(schema, table, codegen.Options{Package: s.codePackage})
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	out := &Artifacts{
		Schema:        schema,
		TableName:     table.String(),
		DDL:           s.generator.RenderScript(schema.Name, stmts),
		Statements:    stmts,
		GeneratedCode: code,
		PreviewData:   previewData(req),
	}

	if bp, ok := req.Config.(core.BattlePassConfig); ok {
		create, err := s.generator.GenerateBattlePassTable(bp.Schema)
		if err != nil {
			return nil, fmt.Errorf("battle pass schema: %w", err)
		}
		out.BattlePassDDL = create.String()
		if out.SeedPreview, err = s.generator.GenerateInsertPreview(bp.Schema, core.DefaultSeedRows()); err != nil {
			return nil, fmt.Errorf("battle pass schema: %w", err)
		}
	}

	s.logger.Debug("schema artifacts generated",
		"mechanic", schema.Type, "table", out.TableName, "statements", len(stmts))
	return out, nil
}

func previewData(req *core.GenerationRequest) Preview {
	if req.MechanicType != core.MechanicBattlePass {
		return Preview{Message: previewUnavailable}
	}

	fields := core.DefaultFieldMap()
	if bp, ok := req.Config.(core.BattlePassConfig); ok {
		fields = bp.Schema
	}
	return Preview{
		SampleUser: map[string]any{
			fields.UserID:   12345,
			fields.Username: "GamerPro123",
			fields.Tier:     15,
			fields.XP:       2500,
			fields.Premium:  true,
			fields.SeasonID: "season_1_2024",
		},
		NextReward: &core.BattlePassReward{
			Tier:       16,
			XPRequired: 2750,
			Reward: core.Reward{
				Type:        core.RewardCosmetic,
				Value:       "epic_emote",
				Description: "Epic Victory Emote",
			},
		},
	}
}
