package config

import (
	"strings"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// WorkflowDTO is the YAML shape of a workflow file.
type WorkflowDTO struct {
	Name        string            `yaml:"name"`
	On          OnDTO             `yaml:"on"`
	Permissions map[string]string `yaml:"permissions"`
	Env         map[string]string `yaml:"env"`
	Jobs        map[string]JobDTO `yaml:"jobs"`
}

// OnDTO is the trigger block. The runner convention allows three shapes:
// a single event name, a list of event names, or a mapping from event name
// to filter.
type OnDTO struct {
	Push             *FilterDTO
	PullRequest      *FilterDTO
	WorkflowDispatch bool
	Schedule         []ScheduleDTO
}

// FilterDTO restricts an event trigger.
type FilterDTO struct {
	Branches []string `yaml:"branches"`
}

// ScheduleDTO is one cron entry of a schedule trigger.
type ScheduleDTO struct {
	Cron string `yaml:"cron"`
}

// JobDTO is a job definition in the configuration.
type JobDTO struct {
	RunsOn         string            `yaml:"runs-on"`
	Needs          []string          `yaml:"needs"`
	TimeoutMinutes int               `yaml:"timeout-minutes"`
	Env            map[string]string `yaml:"env"`
	Steps          []StepDTO         `yaml:"steps"`
}

// StepDTO is a step definition in the configuration.
type StepDTO struct {
	Name       string            `yaml:"name"`
	Uses       string            `yaml:"uses"`
	With       map[string]string `yaml:"with"`
	Run        RunDTO            `yaml:"run"`
	Env        map[string]string `yaml:"env"`
	WorkingDir string            `yaml:"working-directory"`
}

// RunDTO is a step command: either an explicit argv sequence or a scalar
// split on whitespace. No shell is involved either way.
type RunDTO []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *RunDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var argv []string
		if err := node.Decode(&argv); err != nil {
			return err
		}
		*r = argv
		return nil
	default:
		return zerr.New("run must be a command string or an argument list")
	}
}

// UnmarshalYAML implements yaml.Unmarshaler for the three trigger shapes.
func (o *OnDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return o.enable(node.Value, nil)
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		for _, name := range names {
			if err := o.enable(name, nil); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		return o.decodeMapping(node)
	default:
		return zerr.New("on must be an event name, a list, or a mapping")
	}
}

// decodeMapping handles the `on: {push: {...}, ...}` form. Mapping nodes
// interleave key and value nodes.
func (o *OnDTO) decodeMapping(node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]
		if err := o.enable(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (o *OnDTO) enable(event string, value *yaml.Node) error {
	switch event {
	case "push":
		o.Push = &FilterDTO{}
		return decodeFilter(value, o.Push)
	case "pull_request":
		o.PullRequest = &FilterDTO{}
		return decodeFilter(value, o.PullRequest)
	case "workflow_dispatch":
		o.WorkflowDispatch = true
		return nil
	case "schedule":
		if value == nil {
			return zerr.New("schedule trigger requires cron entries")
		}
		return value.Decode(&o.Schedule)
	default:
		return zerr.With(zerr.New("unknown trigger"), "event", event)
	}
}

func decodeFilter(value *yaml.Node, into *FilterDTO) error {
	if value == nil || value.Kind == 0 || value.Tag == "!!null" {
		return nil
	}
	return value.Decode(into)
}
