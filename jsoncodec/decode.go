package jsoncodec

import (
	"bytes"
	"encoding/json"
	"math"

	langspec "github.com/mal-lang/mal-langspec"
	"github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/meta"
	"github.com/mal-lang/mal-langspec/step"
	"github.com/mal-lang/mal-langspec/ttc"
)

type rawLang struct {
	FormatVersion string           `json:"formatVersion"`
	Defines       json.RawMessage  `json:"defines"`
	Categories    []rawCategory    `json:"categories"`
	Assets        []rawAsset       `json:"assets"`
	Associations  []rawAssociation `json:"associations"`
}

type rawCategory struct {
	Name string          `json:"name"`
	Meta json.RawMessage `json:"meta"`
}

type rawAsset struct {
	Name        string          `json:"name"`
	Meta        json.RawMessage `json:"meta"`
	Category    string          `json:"category"`
	IsAbstract  bool            `json:"isAbstract"`
	SuperAsset  *string         `json:"superAsset"`
	Variables   []rawVariable   `json:"variables"`
	AttackSteps []rawAttackStep `json:"attackSteps"`
}

type rawVariable struct {
	Name           string          `json:"name"`
	StepExpression json.RawMessage `json:"stepExpression"`
}

type rawAttackStep struct {
	Name     string          `json:"name"`
	Meta     json.RawMessage `json:"meta"`
	Type     string          `json:"type"`
	Tags     []string        `json:"tags"`
	Risk     json.RawMessage `json:"risk"`
	TTC      json.RawMessage `json:"ttc"`
	Requires *rawSteps       `json:"requires"`
	Reaches  *rawSteps       `json:"reaches"`
}

type rawSteps struct {
	Overrides      bool              `json:"overrides"`
	StepExpressions []json.RawMessage `json:"stepExpressions"`
}

type rawAssociation struct {
	Name              string          `json:"name"`
	Meta              json.RawMessage `json:"meta"`
	LeftAsset         string          `json:"leftAsset"`
	LeftField         string          `json:"leftField"`
	LeftMultiplicity  rawMultiplicity `json:"leftMultiplicity"`
	RightAsset        string          `json:"rightAsset"`
	RightField        string          `json:"rightField"`
	RightMultiplicity rawMultiplicity `json:"rightMultiplicity"`
}

type rawMultiplicity struct {
	Min int      `json:"min"`
	Max *float64 `json:"max"`
}

// Decode parses a langspec.json document into a langspec.Builder,
// validating it against the document schema first. It does not call
// Build: the caller still needs to apply any archive-supplied icons,
// LICENSE, and NOTICE before resolving. Equivalent to
// DecodeWithOptions(data).
func Decode(data []byte) (*langspec.Builder, error) {
	return DecodeWithOptions(data)
}

// DecodeWithOptions decodes data the way Decode does, additionally
// applying opts: StrictSchema rejects a document with no categories or
// no assets, and the resulting Options' Logger receives a
// "jsoncodec.decode" debug event once parsing succeeds.
func DecodeWithOptions(data []byte, opts ...langspec.Option) (*langspec.Builder, error) {
	o := langspec.ApplyOptions(opts...)
	if err := validate(data); err != nil {
		return nil, err
	}

	var rl rawLang
	if err := json.Unmarshal(data, &rl); err != nil {
		return nil, errors.Wrap(errors.SchemaViolation, "", err)
	}
	if rl.FormatVersion != FormatVersion {
		return nil, errors.New(errors.SchemaViolation, rl.FormatVersion, "unsupported formatVersion")
	}
	if o.StrictSchema && (len(rl.Categories) == 0 || len(rl.Assets) == 0) {
		return nil, errors.New(errors.SchemaViolation, "", "strict mode requires at least one category and one asset")
	}

	b := langspec.NewBuilder()
	definesBuilder, err := decodeOrderedMeta(rl.Defines)
	if err != nil {
		return nil, err
	}
	b.Defines = definesBuilder

	for _, rc := range rl.Categories {
		cb, err := langspec.NewCategoryBuilder(rc.Name)
		if err != nil {
			return nil, err
		}
		if cb.Meta, err = decodeOrderedMeta(rc.Meta); err != nil {
			return nil, err
		}
		if err := b.AddCategory(cb); err != nil {
			return nil, err
		}
	}

	for _, ra := range rl.Assets {
		ab, err := decodeAsset(ra)
		if err != nil {
			return nil, err
		}
		if err := b.AddAsset(ab); err != nil {
			return nil, err
		}
	}

	for _, rassoc := range rl.Associations {
		assocB, err := decodeAssociation(rassoc)
		if err != nil {
			return nil, err
		}
		b.AddAssociation(assocB)
	}

	o.EffectiveLogger().Debug("jsoncodec.decode", "categories", len(rl.Categories), "assets", len(rl.Assets), "associations", len(rl.Associations))
	return b, nil
}

// Parse decodes data and resolves it into an immutable Lang. Equivalent
// to ParseWithOptions(data).
func Parse(data []byte) (*langspec.Lang, error) {
	return ParseWithOptions(data)
}

// ParseWithOptions decodes data with opts and resolves the result with
// the same opts, so a single Logger/StrictSchema configuration governs
// both the decode and the link.
func ParseWithOptions(data []byte, opts ...langspec.Option) (*langspec.Lang, error) {
	b, err := DecodeWithOptions(data, opts...)
	if err != nil {
		return nil, err
	}
	return b.BuildWithOptions(opts...)
}

func decodeAsset(ra rawAsset) (*langspec.AssetBuilder, error) {
	ab, err := langspec.NewAssetBuilder(ra.Name, ra.Category)
	if err != nil {
		return nil, err
	}
	if ab.Meta, err = decodeOrderedMeta(ra.Meta); err != nil {
		return nil, err
	}
	ab.IsAbstract = ra.IsAbstract
	if ra.SuperAsset != nil {
		ab.SuperAssetName = *ra.SuperAsset
	}

	for _, rv := range ra.Variables {
		expr, err := decodeStepExpression(rv.StepExpression)
		if err != nil {
			return nil, err
		}
		vb, err := langspec.NewVariableBuilder(rv.Name, expr)
		if err != nil {
			return nil, err
		}
		if err := ab.AddVariable(vb); err != nil {
			return nil, err
		}
	}

	for _, rs := range ra.AttackSteps {
		asb, err := decodeAttackStep(rs)
		if err != nil {
			return nil, err
		}
		if err := ab.AddAttackStep(asb); err != nil {
			return nil, err
		}
	}

	return ab, nil
}

func decodeAttackStep(rs rawAttackStep) (*langspec.AttackStepBuilder, error) {
	typ, err := langspec.AttackStepTypeFromString(rs.Type)
	if err != nil {
		return nil, err
	}
	asb, err := langspec.NewAttackStepBuilder(rs.Name, typ)
	if err != nil {
		return nil, err
	}
	if asb.Meta, err = decodeOrderedMeta(rs.Meta); err != nil {
		return nil, err
	}
	asb.Tags = append([]string(nil), rs.Tags...)

	if asb.Risk, err = decodeRisk(rs.Risk); err != nil {
		return nil, err
	}
	if asb.TTC, err = decodeTTC(rs.TTC); err != nil {
		return nil, err
	}
	if rs.Requires != nil {
		if asb.Requires, err = decodeSteps(rs.Requires); err != nil {
			return nil, err
		}
	}
	if rs.Reaches != nil {
		if asb.Reaches, err = decodeSteps(rs.Reaches); err != nil {
			return nil, err
		}
	}
	return asb, nil
}

func decodeSteps(rs *rawSteps) (*langspec.StepsBuilder, error) {
	exprs := make([]*step.Builder, len(rs.StepExpressions))
	for i, raw := range rs.StepExpressions {
		expr, err := decodeStepExpression(raw)
		if err != nil {
			return nil, err
		}
		exprs[i] = expr
	}
	return &langspec.StepsBuilder{Overrides: rs.Overrides, Exprs: exprs}, nil
}

func decodeStepExpression(raw json.RawMessage) (*step.Builder, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(errors.SchemaViolation, "", err)
	}
	return step.BuilderFromJSON(v)
}

func decodeAssociation(ra rawAssociation) (*langspec.AssociationBuilder, error) {
	leftMult, err := toMultiplicity(ra.LeftMultiplicity)
	if err != nil {
		return nil, err
	}
	rightMult, err := toMultiplicity(ra.RightMultiplicity)
	if err != nil {
		return nil, err
	}
	assocB, err := langspec.NewAssociationBuilder(ra.Name, ra.LeftAsset, ra.LeftField, leftMult, ra.RightAsset, ra.RightField, rightMult)
	if err != nil {
		return nil, err
	}
	if assocB.Meta, err = decodeOrderedMeta(ra.Meta); err != nil {
		return nil, err
	}
	return assocB, nil
}

func toMultiplicity(rm rawMultiplicity) (meta.Multiplicity, error) {
	max := 1.0
	if rm.Max == nil {
		max = math.Inf(1)
	} else {
		max = *rm.Max
	}
	return meta.NewMultiplicity(rm.Min, max)
}

// decodeRisk accepts either the {isConfidentiality, isIntegrity,
// isAvailability} object form or the array-of-tags form per §6; both
// absence and an explicit null mean "no risk declared".
func decodeRisk(raw json.RawMessage) (*meta.Risk, error) {
	if raw == nil || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err == nil {
		r := meta.RiskFromTags(tags)
		return &r, nil
	}
	var obj struct {
		IsConfidentiality bool `json:"isConfidentiality"`
		IsIntegrity       bool `json:"isIntegrity"`
		IsAvailability    bool `json:"isAvailability"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, errors.New(errors.SchemaViolation, "", "risk must be an object of booleans or an array of tags")
	}
	r := meta.Risk{Confidentiality: obj.IsConfidentiality, Integrity: obj.IsIntegrity, Availability: obj.IsAvailability}
	return &r, nil
}

// decodeTTC distinguishes key-absent (raw == nil, meaning "no local
// value, inherit from the super-step") from key-present-and-null
// (decodes, via ttc.FromJSON(nil), to the EMPTY sentinel) per §9.
func decodeTTC(raw json.RawMessage) (*ttc.Expression, error) {
	if raw == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(errors.SchemaViolation, "", err)
	}
	return ttc.FromJSON(v)
}

// decodeOrderedMeta reads an identifier->string JSON object into a
// meta.Builder while preserving its original key order, which
// encoding/json.Unmarshal into a generic map cannot do since Go map
// iteration order is unspecified.
func decodeOrderedMeta(raw json.RawMessage) (*meta.Builder, error) {
	b := meta.NewBuilder()
	if raw == nil || bytes.Equal(raw, []byte("null")) {
		return b, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.SchemaViolation, "", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, errors.New(errors.SchemaViolation, "", "meta must be an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.SchemaViolation, "", err)
		}
		key, _ := keyTok.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return nil, errors.Wrap(errors.SchemaViolation, key, err)
		}
		if err := b.AddEntry(key, val); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.SchemaViolation, "", err)
	}
	return b, nil
}
