package agent

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// Type names a kind of agent. A ConfigList of a registered Type can be
// decoded from JSON through a TypedConfigList.
type Type string

const (
	// TabularTD is the tabular Sarsa(λ)/Q(λ) learner
	TabularTD Type = "TabularTD"
)

// registeredTypes maps each Type to the concrete ConfigList its JSON
// is decoded into. Packages implementing an agent register themselves
// in init, which keeps this package free of imports of its
// implementations.
var registeredTypes = make(map[Type]reflect.Type)

// Register associates agentType with the concrete type of configs.
// Registering a Type twice replaces the earlier registration.
func Register(agentType Type, configs ConfigList) {
	logrus.WithField("type", agentType).Debug("registering agent type")
	registeredTypes[agentType] = reflect.TypeOf(configs)
}

// Registered returns whether a ConfigList has been registered for
// agentType
func Registered(agentType Type) bool {
	_, ok := registeredTypes[agentType]
	return ok
}
