package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/leapstack-labs/leapsched/pkg/core"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// fileRoot decodes every top-level block of an HCL application file.
type fileRoot struct {
	Name      string         `hcl:"name,optional"`
	Cores     int            `hcl:"cores,optional"`
	Resources []*resourceHCL `hcl:"resource,block"`
	Inits     []*initHCL     `hcl:"init,block"`
	Idles     []*routineHCL  `hcl:"idle,block"`
	Hardware  []*hardwareHCL `hcl:"hardware_task,block"`
	Software  []*softwareHCL `hcl:"software_task,block"`
}

type resourceHCL struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
	Late bool   `hcl:"late,optional"`
}

type routineHCL struct {
	Core      int      `hcl:"core,optional"`
	Resources []string `hcl:"resources,optional"`
	Spawns    []string `hcl:"spawns,optional"`
	Schedules []string `hcl:"schedules,optional"`
}

type initHCL struct {
	Core      int            `hcl:"core,optional"`
	Resources []string       `hcl:"resources,optional"`
	Spawns    []string       `hcl:"spawns,optional"`
	Schedules []string       `hcl:"schedules,optional"`
	Claims    hcl.Expression `hcl:"claims,optional"`
}

type hardwareHCL struct {
	Name      string   `hcl:"name,label"`
	Core      int      `hcl:"core,optional"`
	Priority  int      `hcl:"priority"`
	Binds     string   `hcl:"binds,optional"`
	Resources []string `hcl:"resources,optional"`
	Spawns    []string `hcl:"spawns,optional"`
	Schedules []string `hcl:"schedules,optional"`
}

type softwareHCL struct {
	Name      string   `hcl:"name,label"`
	Core      int      `hcl:"core,optional"`
	Priority  int      `hcl:"priority"`
	Capacity  int      `hcl:"capacity,optional"`
	Inputs    []string `hcl:"inputs,optional"`
	Resources []string `hcl:"resources,optional"`
	Spawns    []string `hcl:"spawns,optional"`
	Schedules []string `hcl:"schedules,optional"`
}

// levelsSchema pulls the symbolic priority table out of the body before the
// rest is decoded against it.
var levelsSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{{Name: "levels"}},
}

// ParseHCL decodes an HCL application document. filename is only used in
// diagnostics.
//
// A top-level "levels" object names priorities; expressions refer to them as
// level.<name>, and max() and min() are available:
//
//	levels = { low = 1, high = 3 }
//
//	software_task "worker" {
//	  priority = level.low
//	}
func ParseHCL(data []byte, filename string) (*core.App, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	content, remain, diags := file.Body.PartialContent(levelsSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	evalCtx, err := levelContext(content)
	if err != nil {
		return nil, fmt.Errorf("HCL file %s: %w", filename, err)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(remain, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	return root.decl(evalCtx)
}

func levelContext(content *hcl.BodyContent) (*hcl.EvalContext, error) {
	levels := cty.EmptyObjectVal
	if attr, ok := content.Attributes["levels"]; ok {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if !val.Type().IsObjectType() && !val.Type().IsMapType() {
			return nil, fmt.Errorf("levels must be an object, got %s", val.Type().FriendlyName())
		}
		for it := val.ElementIterator(); it.Next(); {
			name, level := it.Element()
			if level.IsNull() || !level.IsKnown() || level.Type() != cty.Number {
				return nil, fmt.Errorf("level %s must be a number", name.AsString())
			}
		}
		levels = val
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"level": levels},
		Functions: map[string]function.Function{
			"max": stdlib.MaxFunc,
			"min": stdlib.MinFunc,
		},
	}, nil
}

func (r *fileRoot) decl(evalCtx *hcl.EvalContext) (*core.App, error) {
	decl := &appDecl{Name: r.Name, Cores: r.Cores}
	for _, res := range r.Resources {
		decl.Resources = append(decl.Resources, resourceDecl(*res))
	}
	for _, i := range r.Inits {
		claims, err := decodeClaims(i.Claims, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("init on core %d: %w", i.Core, err)
		}
		decl.Inits = append(decl.Inits, initDecl{
			routineDecl: routineDecl{Core: i.Core, Resources: i.Resources, Spawns: i.Spawns, Schedules: i.Schedules},
			Claims:      claims,
		})
	}
	for _, i := range r.Idles {
		decl.Idles = append(decl.Idles, routineDecl(*i))
	}
	for _, t := range r.Hardware {
		decl.Hardware = append(decl.Hardware, taskDecl{
			routineDecl: routineDecl{Core: t.Core, Resources: t.Resources, Spawns: t.Spawns, Schedules: t.Schedules},
			Name:        t.Name,
			Priority:    t.Priority,
			Binds:       t.Binds,
		})
	}
	for _, t := range r.Software {
		decl.Software = append(decl.Software, taskDecl{
			routineDecl: routineDecl{Core: t.Core, Resources: t.Resources, Spawns: t.Spawns, Schedules: t.Schedules},
			Name:        t.Name,
			Priority:    t.Priority,
			Capacity:    t.Capacity,
			Inputs:      t.Inputs,
		})
	}
	return decl.build()
}

// decodeClaims returns nil when the claims attribute is absent or null.
func decodeClaims(expr hcl.Expression, evalCtx *hcl.EvalContext) (*[]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	claims := []string{}
	if diags := gohcl.DecodeExpression(expr, evalCtx, &claims); diags.HasErrors() {
		return nil, diags
	}
	return &claims, nil
}
