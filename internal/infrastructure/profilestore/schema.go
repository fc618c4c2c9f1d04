package profilestore

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type schemaVersion int

const (
	schemaUnknown schemaVersion = iota
	// schemaLegacy один профиль: {"armor_set": ..., "requirements": {...}}.
	schemaLegacy
	// schemaSets {"sets": {<set>: {<piece>: [<code>...]}}}.
	schemaSets

	currentSchema = schemaSets
)

func (v schemaVersion) String() string {
	switch v {
	case schemaLegacy:
		return "legacy"
	case schemaSets:
		return "sets"
	default:
		return "unknown"
	}
}

// document единственный формат, который пишется на диск.
type document struct {
	Sets map[string]map[string][]string `json:"sets"`
}

type legacyDocument struct {
	ArmorSet     string              `json:"armor_set"`
	Requirements map[string][]string `json:"requirements"`
}

type migration func(raw []byte) ([]byte, error)

// migrations переводит документ версии-ключа в следующую версию.
//
//nolint:gochecknoglobals
var migrations = map[schemaVersion]migration{
	schemaLegacy: migrateLegacyToSets,
}

func detectSchema(raw []byte) (schemaVersion, error) {
	var fields map[string]jsoniter.RawMessage

	if err := json.Unmarshal(raw, &fields); err != nil {
		return schemaUnknown, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if _, ok := fields["sets"]; ok {
		return schemaSets, nil
	}

	_, hasSet := fields["armor_set"]
	_, hasRequirements := fields["requirements"]

	if hasSet && hasRequirements {
		return schemaLegacy, nil
	}

	return schemaUnknown, nil
}

// decodeDocument приводит документ любой известной версии к текущей.
func decodeDocument(raw []byte) (document, schemaVersion, error) {
	version, err := detectSchema(raw)
	if err != nil {
		return document{}, schemaUnknown, err
	}

	if version == schemaUnknown {
		return document{Sets: map[string]map[string][]string{}}, version, nil
	}

	detected := version

	for version != currentSchema {
		migrate, ok := migrations[version]
		if !ok {
			return document{}, detected, fmt.Errorf("no migration from schema %s", version)
		}

		if raw, err = migrate(raw); err != nil {
			return document{}, detected, fmt.Errorf("migrate from %s: %w", version, err)
		}

		version++
	}

	var doc document

	if err = json.Unmarshal(raw, &doc); err != nil {
		return document{}, detected, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if doc.Sets == nil {
		doc.Sets = map[string]map[string][]string{}
	}

	return doc, detected, nil
}

func migrateLegacyToSets(raw []byte) ([]byte, error) {
	var legacy legacyDocument

	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	doc := document{Sets: map[string]map[string][]string{}}

	if legacy.ArmorSet != "" && len(legacy.Requirements) > 0 {
		doc.Sets[legacy.ArmorSet] = legacy.Requirements
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return b, nil
}
