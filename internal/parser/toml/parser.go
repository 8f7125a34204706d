// Package toml reads generation requests from TOML files. A file describes
// one mechanic: its type and name, an ordered list of attributes, and for the
// battle pass an optional [battle_pass] section and demonstration rows.
package toml

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"gmc/internal/core"
)

// requestFile is the top-level TOML document.
type requestFile struct {
	Mechanic   tomlMechanic    `toml:"mechanic"`
	Attributes []tomlAttribute `toml:"attributes"`
	BattlePass *tomlBattlePass `toml:"battle_pass"`
	Seed       []core.SeedRow  `toml:"seed"`
}

// tomlMechanic maps [mechanic].
type tomlMechanic struct {
	Type string `toml:"type"`
	Name string `toml:"name"`
}

// Document is a parsed request file.
type Document struct {
	Request  *core.GenerationRequest
	SeedRows []core.SeedRow
}

// FieldMap returns the battle-pass field map of the document, or the default.
func (d *Document) FieldMap() core.FieldMap {
	if bp, ok := d.Request.Config.(core.BattlePassConfig); ok {
		return bp.Schema
	}
	return core.DefaultFieldMap()
}

// Parser reads gmc TOML request files.
type Parser struct{}

// NewParser creates a new TOML request parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile opens the file at the given path and parses it.
func (p *Parser) ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("toml: open file %q: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse reads TOML content from r. The returned request has passed Validate.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	var rf requestFile
	md, err := toml.NewDecoder(r).Decode(&rf)
	if err != nil {
		return nil, core.Wrap(core.CodeInvalidRequest, err, "toml: decode error")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, core.Errorf(core.CodeInvalidRequest, "toml: unknown key %q", undecoded[0].String())
	}

	return newConverter(&rf).convert()
}

type converter struct {
	rf *requestFile
}

func newConverter(rf *requestFile) *converter {
	return &converter{rf: rf}
}

func (c *converter) convert() (*Document, error) {
	mt := core.MechanicType(strings.ToLower(strings.TrimSpace(c.rf.Mechanic.Type)))
	if !core.IsValidMechanicType(string(mt)) {
		return nil, core.Errorf(core.CodeInvalidRequest, "toml: unsupported mechanic type %q; supported: %v",
			c.rf.Mechanic.Type, core.SupportedMechanicTypes())
	}

	req := &core.GenerationRequest{
		MechanicType: mt,
		Name:         c.rf.Mechanic.Name,
		Attributes:   make([]core.AttributeSpec, 0, len(c.rf.Attributes)),
	}
	for i := range c.rf.Attributes {
		attr, err := convertAttribute(&c.rf.Attributes[i])
		if err != nil {
			return nil, fmt.Errorf("toml: attribute %q: %w", c.rf.Attributes[i].Name, err)
		}
		req.Attributes = append(req.Attributes, attr)
	}

	if c.rf.BattlePass != nil {
		if mt != core.MechanicBattlePass {
			return nil, core.Errorf(core.CodeInvalidRequest, "toml: [battle_pass] is only valid for mechanic type %q", core.MechanicBattlePass)
		}
		req.Config = c.rf.BattlePass.convert()
	} else if mt == core.MechanicBattlePass && len(c.rf.Seed) > 0 {
		req.Config = core.DefaultBattlePassConfig()
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if len(c.rf.Seed) > 0 {
		if mt != core.MechanicBattlePass {
			return nil, core.Errorf(core.CodeInvalidRequest, "toml: [[seed]] rows are only valid for mechanic type %q", core.MechanicBattlePass)
		}
		if err := core.ValidateSeedRows(c.rf.Seed); err != nil {
			return nil, err
		}
	}

	return &Document{Request: req, SeedRows: c.rf.Seed}, nil
}
