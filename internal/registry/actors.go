package registry

import (
	"fmt"
	"strings"

	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/domain"
)

// ActorRegistry resolves supply-chain participants by address
type ActorRegistry interface {
	// LookupActor returns the actor owning address, or nil when unknown
	LookupActor(address string) *ActorInfo

	// Location returns the actor's location, or domain.UNKNOWN_LOCATION when unknown
	Location(address string) string
}

// ActorRole is the self-declared role of a participant
type ActorRole string

const (
	ActorRoleProducer    ActorRole = "producer"
	ActorRoleDistributor ActorRole = "distributor"
	ActorRoleRetailer    ActorRole = "retailer"
)

// ActorInfo represents one participant entry in the registry
type ActorInfo struct {
	Name      string    `json:"name"`
	Role      ActorRole `json:"role,omitempty"`
	Location  string    `json:"location,omitempty"`
	Addresses []string  `json:"addresses"`
}

// ActorRegistryData represents the structure of the actors JSON file
type ActorRegistryData struct {
	Version int         `json:"version"`
	Actors  []ActorInfo `json:"actors"`
}

type actorRegistry struct {
	data *ActorRegistryData
	// lowercase address -> actor
	byAddress map[string]*ActorInfo
}

// ActorRegistryLoader loads actor registries from files
type ActorRegistryLoader interface {
	// Load loads the actor registry from a JSON file
	Load(filePath string) (ActorRegistry, error)
}

type actorRegistryLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewActorRegistryLoader creates a new ActorRegistryLoader with injected dependencies
func NewActorRegistryLoader(fs adapter.FileSystem, json adapter.JSON) ActorRegistryLoader {
	return &actorRegistryLoader{
		fs:   fs,
		json: json,
	}
}

// Load loads the actor registry from a JSON file
func (l *actorRegistryLoader) Load(filePath string) (ActorRegistry, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read actor registry file: %w", err)
	}

	var registryData ActorRegistryData
	if err := l.json.Unmarshal(data, &registryData); err != nil {
		return nil, fmt.Errorf("failed to parse actor registry JSON: %w", err)
	}

	return NewActorRegistry(registryData)
}

// NewActorRegistry indexes registry data by address. An address may belong to one actor only.
func NewActorRegistry(data ActorRegistryData) (ActorRegistry, error) {
	registry := &actorRegistry{
		data:      &data,
		byAddress: make(map[string]*ActorInfo),
	}

	for i := range data.Actors {
		actor := &data.Actors[i]
		for _, addr := range actor.Addresses {
			if !domain.IsValidAddress(addr) {
				return nil, fmt.Errorf("actor %q: %w: %s", actor.Name, domain.ErrInvalidAddress, addr)
			}
			key := strings.ToLower(addr)
			if existing, ok := registry.byAddress[key]; ok && existing != actor {
				return nil, fmt.Errorf("address %s listed for both %q and %q", addr, existing.Name, actor.Name)
			}
			registry.byAddress[key] = actor
		}
	}

	return registry, nil
}

// LookupActor returns the actor owning address, or nil when unknown
func (r *actorRegistry) LookupActor(address string) *ActorInfo {
	if r == nil {
		return nil
	}
	return r.byAddress[strings.ToLower(address)]
}

// Location returns the actor's location, or domain.UNKNOWN_LOCATION when unknown
func (r *actorRegistry) Location(address string) string {
	actor := r.LookupActor(address)
	if actor == nil || actor.Location == "" {
		return domain.UNKNOWN_LOCATION
	}
	return actor.Location
}
