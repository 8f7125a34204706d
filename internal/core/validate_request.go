package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct runs the struct-tag rules of v and converts failures to
// an INVALID_REQUEST error naming the first offending field.
func ValidateStruct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return Errorf(CodeInvalidRequest, "field %s failed %q validation", fe.Namespace(), fe.Tag())
	}
	return Wrap(CodeInvalidRequest, err, "validate %T", v)
}

// Validate checks the request shape and every attribute.
func (r *GenerationRequest) Validate() error {
	if r == nil {
		return Errorf(CodeInvalidRequest, "request is nil")
	}
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if !IsValidMechanicType(string(r.MechanicType)) {
		return Errorf(CodeInvalidRequest, "unsupported mechanic type %q; supported: %v", r.MechanicType, SupportedMechanicTypes())
	}
	if strings.TrimSpace(r.Name) == "" {
		return Errorf(CodeInvalidRequest, "name is empty")
	}
	if r.Config != nil && r.Config.MechanicType() != r.MechanicType {
		return Errorf(CodeInvalidRequest, "config is for %q but request is for %q", r.Config.MechanicType(), r.MechanicType)
	}
	if bp, ok := r.Config.(BattlePassConfig); ok {
		if err := ValidateStruct(bp); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(r.Attributes))
	for i := range r.Attributes {
		a := &r.Attributes[i]
		if err := a.Validate(); err != nil {
			return fmt.Errorf("attribute %d: %w", i, err)
		}
		key := strings.ToLower(a.Name)
		if seen[key] {
			return Errorf(CodeInvalidAttribute, "duplicate attribute name %q", a.Name)
		}
		seen[key] = true
	}
	return nil
}

// Validate checks the attribute name, type, default and constraints.
func (a *AttributeSpec) Validate() error {
	if _, err := SanitizeColumn(a.Name); err != nil {
		return err
	}
	switch strings.ToLower(a.Name) {
	case "id", "created_at", "updated_at":
		return Errorf(CodeInvalidAttribute, "attribute %q collides with a generated column", a.Name)
	}
	if _, ok := ParseAttributeType(string(a.Type)); !ok {
		return Errorf(CodeInvalidAttribute, "attribute %q has unsupported type %q", a.Name, a.Type)
	}
	if err := a.validateDefault(); err != nil {
		return err
	}
	return a.validateConstraints()
}

func (a *AttributeSpec) validateDefault() error {
	if a.Default == nil {
		return nil
	}
	t, _ := ParseAttributeType(string(a.Type))
	switch a.Default.(type) {
	case string:
		if t.IsNumeric() || t == AttrBoolean {
			return Errorf(CodeInvalidAttribute, "attribute %q: string default is not compatible with %s", a.Name, t)
		}
	case bool:
		if t != AttrBoolean {
			return Errorf(CodeInvalidAttribute, "attribute %q: boolean default is not compatible with %s", a.Name, t)
		}
	case int, int32, int64, float32, float64:
		if !t.IsNumeric() {
			return Errorf(CodeInvalidAttribute, "attribute %q: numeric default is not compatible with %s", a.Name, t)
		}
	default:
		return Errorf(CodeInvalidAttribute, "attribute %q: default must be a string, number or boolean, got %T", a.Name, a.Default)
	}
	return nil
}

func (a *AttributeSpec) validateConstraints() error {
	c := a.Constraints
	if c == nil {
		return nil
	}
	if c.MaxLength < 0 {
		return Errorf(CodeInvalidAttribute, "attribute %q: maxLength must not be negative", a.Name)
	}
	if c.MinValue != nil && c.MaxValue != nil && *c.MinValue > *c.MaxValue {
		return Errorf(CodeInvalidAttribute, "attribute %q: minValue %v exceeds maxValue %v", a.Name, *c.MinValue, *c.MaxValue)
	}
	if fk := c.ForeignKey; fk != nil {
		if _, err := SanitizeTableName(fk.Table); err != nil {
			return fmt.Errorf("attribute %q foreign key table: %w", a.Name, err)
		}
		if _, err := SanitizeColumn(fk.Column); err != nil {
			return fmt.Errorf("attribute %q foreign key column: %w", a.Name, err)
		}
	}
	return nil
}

// MaxSeedRows keeps a single seed insert under the server's limit of 65535
// placeholders at six per row.
const MaxSeedRows = 65535 / 6

// ValidateSeedRows checks the row count and every row's struct rules.
func ValidateSeedRows(rows []SeedRow) error {
	if len(rows) == 0 {
		return Errorf(CodeInvalidRequest, "no seed rows")
	}
	if len(rows) > MaxSeedRows {
		return Errorf(CodeInvalidRequest, "%d seed rows exceed the limit of %d", len(rows), MaxSeedRows)
	}
	for i := range rows {
		if err := ValidateStruct(rows[i]); err != nil {
			return fmt.Errorf("seed row %d: %w", i, err)
		}
	}
	return nil
}
