// Package record encodes persisted entities into versioned envelopes.
//
// Every stored value is {"schemaVersion": N, "data": {...}}. Readers upgrade older
// payloads through the registered migrations until they reach CurrentVersion, then
// decode into the in-memory model. Version tags are never reused: a new layout gets a
// new number and a migration from the previous one.
package record

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion uint16 = 1

// oldestVersion is the first schema version ever written.
const oldestVersion uint16 = 1

// Kind names a record family; migrations are registered per kind.
type Kind string

const (
	KindAccount Kind = "account"
	KindDragon  Kind = "dragon"
	KindCluster Kind = "cluster"
	KindBattle  Kind = "battle"
	KindCounter Kind = "counter"
)

// Envelope is the stored wrapper around a record payload.
type Envelope struct {
	SchemaVersion uint16          `json:"schemaVersion"`
	Data          json.RawMessage `json:"data"`
}

// Migration upgrades a payload from version N to N+1.
type Migration func(json.RawMessage) (json.RawMessage, error)

// migrations[kind][n] upgrades kind payloads stored at version n.
var migrations = map[Kind]map[uint16]Migration{}

func encode[T any](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "marshal record")
	}
	bz, err := json.Marshal(Envelope{SchemaVersion: CurrentVersion, Data: data})
	if err != nil {
		return nil, eris.Wrap(err, "marshal envelope")
	}
	return bz, nil
}

func decode[T any](kind Kind, bz []byte) (T, error) {
	var zero T
	var env Envelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return zero, eris.Wrapf(err, "unmarshal %s envelope", kind)
	}
	data, err := upgrade(kind, env)
	if err != nil {
		return zero, err
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return zero, eris.Wrapf(err, "unmarshal %s v%d", kind, CurrentVersion)
	}
	return *out, nil
}

func upgrade(kind Kind, env Envelope) (json.RawMessage, error) {
	return upgradeFrom(kind, env, oldestVersion)
}

func upgradeFrom(kind Kind, env Envelope, oldest uint16) (json.RawMessage, error) {
	if env.SchemaVersion < oldest || env.SchemaVersion > CurrentVersion {
		return nil, eris.New(fmt.Sprintf("%s: unsupported schema version %d", kind, env.SchemaVersion))
	}
	data := env.Data
	for v := env.SchemaVersion; v < CurrentVersion; v++ {
		m, ok := migrations[kind][v]
		if !ok {
			return nil, eris.New(fmt.Sprintf("%s: no migration from version %d", kind, v))
		}
		next, err := m(data)
		if err != nil {
			return nil, eris.Wrapf(err, "migrate %s v%d", kind, v)
		}
		data = next
	}
	return data, nil
}
