// Package account resolves ledger account aliases (strings containing '.') to hex
// addresses.
//
// Entity ids of the form "shard.realm.num" map onto the 20-byte long-zero address
// layout: 4 bytes of shard, 8 bytes of realm, 8 bytes of num, big-endian. Named
// aliases are served by a Table seeded from configuration.
package account

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownAlias is returned when no resolver in a chain knows the alias.
var ErrUnknownAlias = errors.New("unknown account alias")

// Resolver maps an account alias to a 0x-prefixed hex address.
type Resolver interface {
	Resolve(alias string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(alias string) (string, error)

func (f ResolverFunc) Resolve(alias string) (string, error) { return f(alias) }

// EntityID is a parsed shard.realm.num identifier.
type EntityID struct {
	Shard uint32
	Realm uint64
	Num   uint64
}

// ParseEntityID parses "shard.realm.num".
func ParseEntityID(s string) (EntityID, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return EntityID{}, fmt.Errorf("invalid entity id %q: want shard.realm.num", s)
	}
	shard, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return EntityID{}, fmt.Errorf("invalid entity id %q: shard: %w", s, err)
	}
	realm, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return EntityID{}, fmt.Errorf("invalid entity id %q: realm: %w", s, err)
	}
	num, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return EntityID{}, fmt.Errorf("invalid entity id %q: num: %w", s, err)
	}
	return EntityID{Shard: uint32(shard), Realm: realm, Num: num}, nil
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

// Address returns the long-zero address of the entity.
func (id EntityID) Address() common.Address {
	var a common.Address
	binary.BigEndian.PutUint32(a[0:4], id.Shard)
	binary.BigEndian.PutUint64(a[4:12], id.Realm)
	binary.BigEndian.PutUint64(a[12:20], id.Num)
	return a
}

// EntityFromAddress is the inverse of EntityID.Address.
func EntityFromAddress(a common.Address) EntityID {
	return EntityID{
		Shard: binary.BigEndian.Uint32(a[0:4]),
		Realm: binary.BigEndian.Uint64(a[4:12]),
		Num:   binary.BigEndian.Uint64(a[12:20]),
	}
}

// EntityResolver resolves shard.realm.num aliases.
type EntityResolver struct{}

func (EntityResolver) Resolve(alias string) (string, error) {
	id, err := ParseEntityID(alias)
	if err != nil {
		return "", err
	}
	return id.Address().Hex(), nil
}

// Table resolves named aliases from a fixed map. Values may be hex addresses or
// entity ids.
type Table map[string]string

// NewTable validates entries and returns a Table.
func NewTable(entries map[string]string) (Table, error) {
	t := make(Table, len(entries))
	for alias, target := range entries {
		if !strings.Contains(alias, ".") {
			return nil, fmt.Errorf("alias %q must contain '.'", alias)
		}
		addr, err := resolveTarget(target)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", alias, err)
		}
		t[alias] = addr
	}
	return t, nil
}

func (t Table) Resolve(alias string) (string, error) {
	if addr, ok := t[alias]; ok {
		return addr, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
}

func resolveTarget(target string) (string, error) {
	if common.IsHexAddress(target) {
		return common.HexToAddress(target).Hex(), nil
	}
	return EntityResolver{}.Resolve(target)
}

// Chain tries each resolver in order and returns the first success.
type Chain []Resolver

func (c Chain) Resolve(alias string) (string, error) {
	var errs []error
	for _, r := range c {
		addr, err := r.Resolve(alias)
		if err == nil {
			return addr, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
	}
	return "", errors.Join(errs...)
}

// Default resolves named aliases from table first, then entity ids.
func Default(table Table) Resolver {
	if len(table) == 0 {
		return EntityResolver{}
	}
	return Chain{table, EntityResolver{}}
}
