package format

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroAddress is the canonical form of the zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Address returns the EIP-55 checksummed form of value. Strings containing '.' are
// account aliases and go through the Formatter's resolver first. Mixed-case input
// must carry a valid checksum.
func (f *Formatter) Address(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", argumentError("invalid address", value)
	}
	if strings.Contains(s, ".") {
		resolved, err := f.resolver.Resolve(s)
		if err != nil {
			return "", wrapArgumentError("unresolvable account alias", value, err)
		}
		s = resolved
	}
	return checksumAddress(s, value)
}

func checksumAddress(s string, orig any) (string, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if !common.IsHexAddress(s) {
		return "", argumentError("invalid address", orig)
	}
	body := s[2:]
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		mixed, err := common.NewMixedcaseAddressFromString("0x" + body)
		if err != nil {
			return "", wrapArgumentError("invalid address", orig, err)
		}
		if !mixed.ValidChecksum() {
			return "", argumentError("bad address checksum", orig)
		}
	}
	return common.HexToAddress(s).Hex(), nil
}

// CallAddress reads an address out of a 32-byte ABI word. Anything that is not a
// 32-byte hex value, and the zero address, yields nil.
func (f *Formatter) CallAddress(value any) *string {
	s, ok := value.(string)
	if !ok || !IsHexString(s) || len(s) != 66 {
		return nil
	}
	addr := common.HexToAddress("0x" + s[26:]).Hex()
	if addr == ZeroAddress {
		return nil
	}
	return &addr
}

// ContractAddress derives the CREATE address of a transaction from its sender and
// nonce.
func (f *Formatter) ContractAddress(tx map[string]any) (string, error) {
	from, err := f.Address(tx["from"])
	if err != nil {
		return "", annotate(err, "from", tx["from"])
	}
	nonce, err := Number(tx["nonce"])
	if err != nil {
		return "", annotate(err, "nonce", tx["nonce"])
	}
	if nonce < 0 {
		return "", annotate(argumentError("invalid nonce", tx["nonce"]), "nonce", tx["nonce"])
	}
	return crypto.CreateAddress(common.HexToAddress(from), uint64(nonce)).Hex(), nil
}

// AccessList normalizes an access list given as [address, storageKeys] tuples,
// {address, storageKeys} objects, or an address-keyed map. Null is an empty list.
func (f *Formatter) AccessList(value any) (types.AccessList, error) {
	switch t := value.(type) {
	case nil:
		return types.AccessList{}, nil
	case types.AccessList:
		return f.AccessList(accessListItems(t))
	}

	if obj, ok := asObject(value); ok {
		out := make(types.AccessList, 0, len(obj))
		addrs := make([]string, 0, len(obj))
		for addr := range obj {
			addrs = append(addrs, addr)
		}
		slices.Sort(addrs)
		for _, addr := range addrs {
			tuple, err := f.accessTuple(addr, obj[addr])
			if err != nil {
				return nil, annotate(err, addr, obj[addr])
			}
			out = append(out, tuple)
		}
		return out, nil
	}

	items, ok := asSlice(value)
	if !ok {
		return nil, typeError("invalid access list", value, nil)
	}
	out := make(types.AccessList, 0, len(items))
	for i, item := range items {
		var (
			tuple types.AccessTuple
			err   error
		)
		if pair, ok := asSlice(item); ok {
			if len(pair) != 2 {
				err = argumentError("access list expected [ address, storageKeys[] ]", item)
			} else {
				tuple, err = f.accessTuple(pair[0], pair[1])
			}
		} else if obj, ok := asObject(item); ok {
			tuple, err = f.accessTuple(obj["address"], obj["storageKeys"])
		} else {
			err = typeError("invalid access list entry", item, nil)
		}
		if err != nil {
			return nil, annotate(err, "["+strconv.Itoa(i)+"]", item)
		}
		out = append(out, tuple)
	}
	return out, nil
}

func (f *Formatter) accessTuple(addr any, keys any) (types.AccessTuple, error) {
	a, err := f.Address(addr)
	if err != nil {
		return types.AccessTuple{}, annotate(err, "address", addr)
	}
	rawKeys, ok := asSlice(keys)
	if !ok {
		return types.AccessTuple{}, annotate(typeError("not an array", keys, ErrNotArray), "storageKeys", keys)
	}
	storage := make([]common.Hash, 0, len(rawKeys))
	for i, k := range rawKeys {
		h, err := Hash32(k, true)
		if err != nil {
			return types.AccessTuple{}, annotate(annotate(err, "["+strconv.Itoa(i)+"]", k), "storageKeys", keys)
		}
		storage = append(storage, common.HexToHash(h))
	}
	return types.AccessTuple{Address: common.HexToAddress(a), StorageKeys: storage}, nil
}

func accessListItems(list types.AccessList) []any {
	out := make([]any, 0, len(list))
	for _, t := range list {
		keys := make([]any, 0, len(t.StorageKeys))
		for _, k := range t.StorageKeys {
			keys = append(keys, k.Hex())
		}
		out = append(out, map[string]any{"address": t.Address.Hex(), "storageKeys": keys})
	}
	return out
}

// Topics validates a topic filter: nested arrays of 32-byte hashes, nil passes
// through at any depth.
func (f *Formatter) Topics(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if items, ok := asSlice(value); ok {
		out := make([]any, 0, len(items))
		for i, item := range items {
			v, err := f.Topics(item)
			if err != nil {
				return nil, annotate(err, "["+strconv.Itoa(i)+"]", item)
			}
			out = append(out, v)
		}
		return out, nil
	}
	return Hash32(value, true)
}
