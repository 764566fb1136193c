package langspec

import (
	"log/slog"

	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/meta"
	"github.com/mal-lang/mal-langspec/step"
	"github.com/mal-lang/mal-langspec/ttc"
)

// resolver runs the two-phase link described in §4.5: a structural
// phase that wires categories, asset shells, super-asset links, and
// associations, followed by a semantic phase that types every step
// expression (variables, then attack-step requires/reaches) and merges
// attack-step override semantics across the super-asset chain.
type resolver struct {
	b    *Builder
	opts *Options

	categories     []*Category
	categoryByName map[string]*Category

	assets      []*Asset
	assetByName map[string]*Asset

	associations []*Association

	attackStepsBuilt map[string]bool
}

func (r *resolver) log() *slog.Logger { return r.opts.EffectiveLogger() }

func (r *resolver) run() (*Lang, error) {
	defines := r.b.Defines.Build()
	if err := requireDefines(defines); err != nil {
		return nil, err
	}

	if err := r.buildCategories(); err != nil {
		return nil, err
	}
	if err := r.buildAssetShells(); err != nil {
		return nil, err
	}
	if err := r.connectSuperAssets(); err != nil {
		return nil, err
	}
	if err := r.buildAssociations(); err != nil {
		return nil, err
	}
	r.log().Debug("phase1.complete", "categories", len(r.categories), "assets", len(r.assets), "associations", len(r.associations))

	if err := r.buildVariables(); err != nil {
		return nil, err
	}
	if err := r.buildAttackSteps(); err != nil {
		return nil, err
	}
	r.log().Debug("phase2.complete", "assets", len(r.assets))

	return &Lang{
		defines:        defines,
		categories:     r.categories,
		categoryByName: r.categoryByName,
		assets:         r.assets,
		assetByName:    r.assetByName,
		associations:   r.associations,
		license:        r.b.License,
		hasLicense:     r.b.HasLicense,
		notice:         r.b.Notice,
		hasNotice:      r.b.HasNotice,
	}, nil
}

// buildCategories implements phase 1 step 1.
func (r *resolver) buildCategories() error {
	r.categoryByName = make(map[string]*Category, len(r.b.categoryOrder))
	for _, name := range r.b.categoryOrder {
		c := r.b.categories[name].build()
		r.categories = append(r.categories, c)
		r.categoryByName[c.name] = c
	}
	return nil
}

// buildAssetShells implements phase 1 step 2.
func (r *resolver) buildAssetShells() error {
	r.assetByName = make(map[string]*Asset, len(r.b.assetOrder))
	for _, name := range r.b.assetOrder {
		ab := r.b.assets[name]
		category, ok := r.categoryByName[ab.CategoryName]
		if !ok {
			return langerrors.New(langerrors.UnknownReference, ab.CategoryName, "unknown category for asset "+ab.Name)
		}

		var m *meta.Meta
		if ab.Meta != nil {
			m = ab.Meta.Build()
		} else {
			m = meta.Empty()
		}

		asset := &Asset{
			name:              ab.Name,
			meta:              m,
			category:          category,
			isAbstract:        ab.IsAbstract,
			variablesByName:   map[string]*Variable{},
			attackStepsByName: map[string]*AttackStep{},
			fieldsByName:      map[string]*Field{},
			svgIcon:           ab.SvgIcon,
			pngIcon:           ab.PngIcon,
		}
		category.assets = append(category.assets, asset)
		r.assets = append(r.assets, asset)
		r.assetByName[asset.name] = asset
	}
	return nil
}

// connectSuperAssets implements phase 1 step 3, including DFS cycle
// detection.
func (r *resolver) connectSuperAssets() error {
	for _, name := range r.b.assetOrder {
		ab := r.b.assets[name]
		if ab.SuperAssetName == "" {
			continue
		}
		super, ok := r.assetByName[ab.SuperAssetName]
		if !ok {
			return langerrors.New(langerrors.UnknownReference, ab.SuperAssetName, "unknown super asset for "+ab.Name)
		}
		r.assetByName[ab.Name].super = super
	}

	for _, a := range r.assets {
		seen := map[string]bool{}
		for cur := a; cur != nil; cur = cur.super {
			if seen[cur.name] {
				return langerrors.New(langerrors.SuperAssetCycle, a.name, "cycle in super-asset chain")
			}
			seen[cur.name] = true
		}
	}
	return nil
}

// buildAssociations implements phase 1 step 4.
func (r *resolver) buildAssociations() error {
	for _, ab := range r.b.associations {
		left, ok := r.assetByName[ab.LeftAssetName]
		if !ok {
			return langerrors.New(langerrors.UnknownReference, ab.LeftAssetName, "unknown left asset for association "+ab.Name)
		}
		right, ok := r.assetByName[ab.RightAssetName]
		if !ok {
			return langerrors.New(langerrors.UnknownReference, ab.RightAssetName, "unknown right asset for association "+ab.Name)
		}
		assoc, err := ab.build(left, right)
		if err != nil {
			return err
		}
		r.associations = append(r.associations, assoc)
	}
	return nil
}

func (r *resolver) assetLookup() step.AssetLookup {
	return func(name string) (step.Asset, bool) {
		a, ok := r.assetByName[name]
		if !ok {
			return nil, false
		}
		return a, true
	}
}

// buildVariables implements phase 2 step 5. Every variable on an asset
// is pre-registered (name known, expression nil) before any of that
// asset's expressions are typed, so that a forward reference to a
// not-yet-typed sibling surfaces as VariableCycle rather than
// UnknownReference.
func (r *resolver) buildVariables() error {
	lookup := r.assetLookup()
	for _, name := range r.b.assetOrder {
		ab := r.b.assets[name]
		asset := r.assetByName[name]

		vars := make([]*Variable, len(ab.Variables))
		for i, vb := range ab.Variables {
			v := &Variable{name: vb.Name, owningAsset: asset}
			vars[i] = v
			asset.localVariables = append(asset.localVariables, v)
			asset.variablesByName[v.name] = v
		}

		for i, vb := range ab.Variables {
			node, err := step.Build(asset, vb.Expression, lookup)
			if err != nil {
				return err
			}
			vars[i].expression = node
		}
	}
	return nil
}

// buildAttackSteps implements phase 2 steps 6 and 7, processing each
// asset's super-asset before the asset itself so that override merging
// always sees the super-step's already-effective tags/risk/ttc/
// requires/reaches. Every asset's local attack-step names are registered
// first, so a requires/reaches expression may name a step on an asset
// whose own steps are built later.
func (r *resolver) buildAttackSteps() error {
	r.attackStepsBuilt = map[string]bool{}
	lookup := r.assetLookup()
	for _, name := range r.b.assetOrder {
		asset := r.assetByName[name]
		for _, asb := range r.b.assets[name].AttackSteps {
			asset.attackStepsByName[asb.Name] = &AttackStep{name: asb.Name, owningAsset: asset, typ: asb.Type}
		}
	}
	for _, name := range r.b.assetOrder {
		if err := r.ensureAttackSteps(r.assetByName[name], lookup); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) ensureAttackSteps(asset *Asset, lookup step.AssetLookup) error {
	if r.attackStepsBuilt[asset.name] {
		return nil
	}
	if asset.super != nil {
		if err := r.ensureAttackSteps(asset.super, lookup); err != nil {
			return err
		}
	}
	r.attackStepsBuilt[asset.name] = true

	ab := r.b.assets[asset.name]
	for _, asb := range ab.AttackSteps {
		built, err := r.buildAttackStep(asset, asb, lookup)
		if err != nil {
			return err
		}
		asset.localAttackSteps = append(asset.localAttackSteps, built)
		asset.attackStepsByName[built.name] = built
	}
	r.log().Debug("phase2.asset", "asset", asset.name, "localAttackSteps", len(ab.AttackSteps))
	return nil
}

func (r *resolver) buildAttackStep(asset *Asset, asb *AttackStepBuilder, lookup step.AssetLookup) (*AttackStep, error) {
	var superStep *AttackStep
	if asset.super != nil {
		superStep, _ = asset.super.AttackStep(asb.Name)
	}
	if superStep != nil && superStep.typ != asb.Type {
		return nil, langerrors.New(langerrors.StepTypeMismatch, asset.name+"."+asb.Name, "attack step type differs from super-step")
	}

	var m *meta.Meta
	if asb.Meta != nil {
		m = asb.Meta.Build()
	} else {
		m = meta.Empty()
	}

	tags := asb.Tags
	if len(tags) == 0 && superStep != nil {
		tags = superStep.tags
	}

	risk := asb.Risk
	if risk == nil && superStep != nil {
		risk = superStep.risk
	}

	effectiveTTC := asb.TTC
	if effectiveTTC == nil && superStep != nil {
		effectiveTTC = superStep.ttc
	}
	if effectiveTTC == nil {
		effectiveTTC = ttc.EmptyExpression()
	}

	requires, err := r.mergeSteps(asset, asb.Requires, inheritedSteps(superStep, (*AttackStep).Requires), lookup, false)
	if err != nil {
		return nil, err
	}
	reaches, err := r.mergeSteps(asset, asb.Reaches, inheritedSteps(superStep, (*AttackStep).Reaches), lookup, true)
	if err != nil {
		return nil, err
	}

	return &AttackStep{
		name:        asb.Name,
		meta:        m,
		owningAsset: asset,
		typ:         asb.Type,
		tags:        append([]string(nil), tags...),
		risk:        risk,
		ttc:         effectiveTTC,
		requires:    requires,
		reaches:     reaches,
	}, nil
}

func inheritedSteps(superStep *AttackStep, get func(*AttackStep) *Steps) *Steps {
	if superStep == nil {
		return nil
	}
	return get(superStep)
}

// mergeSteps builds local's step expressions (if any) against asset as
// source, then combines them with inherited according to local's
// Overrides flag, per §4.4. requiresTerminalAttackStep enforces the
// reaches-only constraint that every top-level element ultimately names
// an attack step.
func (r *resolver) mergeSteps(asset *Asset, local *StepsBuilder, inherited *Steps, lookup step.AssetLookup, requiresTerminalAttackStep bool) (*Steps, error) {
	if local == nil {
		return inherited, nil
	}

	built := make([]*step.Node, len(local.Exprs))
	for i, b := range local.Exprs {
		node, err := step.Build(asset, b, lookup)
		if err != nil {
			return nil, err
		}
		if requiresTerminalAttackStep {
			if err := checkReachesTerminal(node); err != nil {
				return nil, err
			}
		}
		built[i] = node
	}

	if local.Overrides || inherited == nil {
		return &Steps{Overrides: local.Overrides, Exprs: built}, nil
	}

	exprs := make([]*step.Node, 0, len(inherited.Exprs)+len(built))
	exprs = append(exprs, inherited.Exprs...)
	exprs = append(exprs, built...)
	return &Steps{Overrides: false, Exprs: exprs}, nil
}

// checkReachesTerminal walks down a collect chain's right branch to the
// expression's final node and requires it to be an attackStep
// reference, per §4.5 step 6.
func checkReachesTerminal(node *step.Node) error {
	n := node
	for n.Kind == step.Collect {
		n = n.Rhs
	}
	if n.Kind != step.AttackStepRef {
		return langerrors.New(langerrors.SchemaViolation, node.SourceAsset.Name(), "reaches expression must terminate in an attack step reference")
	}
	if _, ok := n.ResolvedAttackStepOn.(*Asset).AttackStep(n.Name); !ok {
		return langerrors.New(langerrors.UnknownReference, n.Name, "unknown terminal attack step")
	}
	return nil
}
