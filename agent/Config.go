package agent

import (
	"fmt"
	"reflect"

	"github.com/samuelfneumann/tabularq/table"
	"golang.org/x/exp/rand"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes, learning
	// the values in t
	CreateAgent(t *table.Table, src rand.Source) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}

// ConfigList stores a number of Configs in a compact manner. Instead
// of storing a slice of Configs, a ConfigList stores a slice of values
// for each field of its Config. The Configs in the list are every
// combination of field values.
//
// Every exported field of a ConfigList must be a slice whose element
// type matches the type of the Config field with the same name.
type ConfigList interface {
	// Config returns an empty Config of the type stored by the list
	Config() Config

	// Type returns the type of agent constructed by the list's Configs
	Type() Type

	// NumFields returns the number of settable fields
	NumFields() int

	// Len returns the number of Configs stored by the list
	Len() int
}

// ConfigAt returns the Config at index i in list. The first field of
// the list varies slowest and the last field varies fastest.
func ConfigAt(i int, list ConfigList) Config {
	if i < 0 || i >= list.Len() {
		panic(fmt.Sprintf("configAt: index %d out of range [0, %d)", i,
			list.Len()))
	}

	listValue := reflect.ValueOf(list)
	config := reflect.New(reflect.TypeOf(list.Config())).Elem()

	for f := listValue.NumField() - 1; f >= 0; f-- {
		name := listValue.Type().Field(f).Name
		values := listValue.Field(f)

		field := config.FieldByName(name)
		if !field.IsValid() {
			panic(fmt.Sprintf("configAt: config has no field %v", name))
		}

		n := values.Len()
		field.Set(values.Index(i % n))
		i /= n
	}

	return config.Interface().(Config)
}
