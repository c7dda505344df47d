package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/leapstack-labs/leapsched/pkg/core"
	"gopkg.in/yaml.v3"
)

// appYAML is the YAML document layout. Unknown fields are rejected.
type appYAML struct {
	Name          string         `yaml:"name"`
	Cores         int            `yaml:"cores"`
	Resources     []resourceYAML `yaml:"resources"`
	Init          []initYAML     `yaml:"init"`
	Idle          []routineYAML  `yaml:"idle"`
	HardwareTasks []taskYAML     `yaml:"hardware_tasks"`
	SoftwareTasks []taskYAML     `yaml:"software_tasks"`
}

type resourceYAML struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Late bool   `yaml:"late"`
}

type routineYAML struct {
	Core      int          `yaml:"core"`
	Resources []accessYAML `yaml:"resources"`
	Spawns    []string     `yaml:"spawns"`
	Schedules []string     `yaml:"schedules"`
}

type initYAML struct {
	routineYAML `yaml:",inline"`
	Claims      *[]string `yaml:"claims"`
}

type taskYAML struct {
	routineYAML `yaml:",inline"`
	Name        string   `yaml:"name"`
	Priority    int      `yaml:"priority"`
	Binds       string   `yaml:"binds"`
	Capacity    int      `yaml:"capacity"`
	Inputs      []string `yaml:"inputs"`
}

// accessYAML accepts either a scalar ("buf", "&cfg") or a mapping
// ({name: cfg, mode: shared}).
type accessYAML string

func (a *accessYAML) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = accessYAML(node.Value)
		return nil
	case yaml.MappingNode:
		var m struct {
			Name string `yaml:"name"`
			Mode string `yaml:"mode"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		mode, err := core.ParseAccessMode(m.Mode)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*a = accessYAML(mode.String() + ":" + m.Name)
		return nil
	default:
		return fmt.Errorf("line %d: resource access must be a string or a mapping", node.Line)
	}
}

func (r routineYAML) decl() routineDecl {
	resources := make([]string, len(r.Resources))
	for i, a := range r.Resources {
		resources[i] = string(a)
	}
	return routineDecl{
		Core:      r.Core,
		Resources: resources,
		Spawns:    r.Spawns,
		Schedules: r.Schedules,
	}
}

func (t taskYAML) decl() taskDecl {
	return taskDecl{
		routineDecl: t.routineYAML.decl(),
		Name:        t.Name,
		Priority:    t.Priority,
		Binds:       t.Binds,
		Capacity:    t.Capacity,
		Inputs:      t.Inputs,
	}
}

// ParseYAML decodes a YAML application document.
func ParseYAML(data []byte) (*core.App, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc appYAML
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}

	decl := &appDecl{Name: doc.Name, Cores: doc.Cores}
	for _, r := range doc.Resources {
		decl.Resources = append(decl.Resources, resourceDecl(r))
	}
	for _, i := range doc.Init {
		decl.Inits = append(decl.Inits, initDecl{routineDecl: i.routineYAML.decl(), Claims: i.Claims})
	}
	for _, i := range doc.Idle {
		decl.Idles = append(decl.Idles, i.decl())
	}
	for _, t := range doc.HardwareTasks {
		decl.Hardware = append(decl.Hardware, t.decl())
	}
	for _, t := range doc.SoftwareTasks {
		decl.Software = append(decl.Software, t.decl())
	}
	return decl.build()
}
