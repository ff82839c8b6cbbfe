package agent

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// TypedConfigList implements functionality for typing a ConfigList.
// In this way, a ConfigList can explicitly have its type stored so
// that when deserializing the ConfigList, we can deserialize it into
// its concrete type without knowing beforehand or declaring beforehand
// a variable of its concrete type.
type TypedConfigList struct {
	Type
	ConfigList
}

// NewTypedConfigList types the argument ConfigList and returns it
// as a TypedConfigList which explicitly holds its Type.
func NewTypedConfigList(c ConfigList) TypedConfigList {
	return TypedConfigList{Type: c.Type(), ConfigList: c}
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (j *TypedConfigList) UnmarshalJSON(data []byte) error {
	configs, typeName, err := unmarshalConfigList(
		data,
		"Type",
		"ConfigList")
	if err != nil {
		return err
	}

	j.Type = typeName
	j.ConfigList = configs

	return nil
}

// unmarshalConfigList uses reflection to unmarshal a ConfigList into
// its concrete type. Both the ConfigList and its Type are returned.
func unmarshalConfigList(data []byte, typeJSONField,
	valueJSONField string) (ConfigList, Type, error) {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, "", err
	}

	var typeName Type
	if err := json.Unmarshal(m[typeJSONField], &typeName); err != nil {
		return nil, "", fmt.Errorf("unmarshalConfigList: could not "+
			"decode type: %v", err)
	}

	ty, found := registeredTypes[typeName]
	if !found {
		return nil, "", fmt.Errorf("unmarshalConfigList: no registered "+
			"type %q", typeName)
	}
	value := reflect.New(ty)

	if err := json.Unmarshal(m[valueJSONField], value.Interface()); err != nil {
		return nil, "", err
	}
	concreteValue := value.Elem().Interface().(ConfigList)

	return concreteValue, typeName, nil
}

// At returns the Config at index i in the TypedConfigList
func (t *TypedConfigList) At(i int) Config {
	return ConfigAt(i, t.ConfigList)
}
