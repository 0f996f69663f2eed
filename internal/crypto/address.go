package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/sha3"

	"github.com/screa/evm-vanity-miner/pkg/types"
)

const (
	SecretLen  = 32
	AddressLen = 20

	// Uncompressed public key without the 0x04 tag: X (32) + Y (32)
	PubKeyLen = 64
)

// Derivation engines
const (
	EngineDecred = "decred"
	EngineGeth   = "geth"
	EngineBtcec  = "btcec"
)

// Engines lists the supported derivation engines, default first
var Engines = []string{EngineDecred, EngineGeth, EngineBtcec}

var (
	// ErrInvalidScalar is returned for a secret that is 0 or >= the group order.
	// Callers draw a new secret and retry.
	ErrInvalidScalar = errors.New("secret is not a valid secp256k1 scalar")
	ErrUnknownEngine = errors.New("unknown derivation engine")
)

// Deriver turns a secret into an address. Implementations keep reusable
// buffers and are not safe for concurrent use, build one per worker.
type Deriver interface {
	DeriveAddress(secret *[SecretLen]byte, addr *[AddressLen]byte) error
}

// NewDeriver returns a Deriver for the named engine. An empty name selects the default.
func NewDeriver(engine string) (Deriver, error) {
	switch engine {
	case "", EngineDecred:
		return &decredDeriver{hasher: sha3.NewLegacyKeccak256()}, nil
	case EngineGeth:
		return gethDeriver{}, nil
	case EngineBtcec:
		return &btcecDeriver{hasher: sha3.NewLegacyKeccak256()}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownEngine, engine, strings.Join(Engines, ", "))
	}
}

// decredDeriver runs the allocation-free point multiplication. The scalar,
// point and both buffers are reused across calls.
type decredDeriver struct {
	hasher  hash.Hash
	scalar  secp256k1.ModNScalar
	point   secp256k1.JacobianPoint
	pubBuf  [PubKeyLen]byte
	hashBuf [32]byte
}

func (d *decredDeriver) DeriveAddress(secret *[SecretLen]byte, addr *[AddressLen]byte) error {
	if overflow := d.scalar.SetBytes(secret); overflow != 0 || d.scalar.IsZero() {
		return ErrInvalidScalar
	}

	// Q = d*G, non-constant time is fine: the search is not a signing oracle
	secp256k1.ScalarBaseMultNonConst(&d.scalar, &d.point)
	d.point.ToAffine()
	d.point.X.Normalize()
	d.point.Y.Normalize()
	d.point.X.PutBytesUnchecked(d.pubBuf[0:32])
	d.point.Y.PutBytesUnchecked(d.pubBuf[32:64])

	AddressInto(d.hasher, d.pubBuf[:], d.hashBuf[:], addr[:])
	return nil
}

// gethDeriver goes through go-ethereum's ecdsa types. Slower, but it is the
// reference every other engine is checked against.
type gethDeriver struct{}

func (gethDeriver) DeriveAddress(secret *[SecretLen]byte, addr *[AddressLen]byte) error {
	key, err := ethcrypto.ToECDSA(secret[:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScalar, err)
	}
	*addr = [AddressLen]byte(ethcrypto.PubkeyToAddress(key.PublicKey))
	return nil
}

type btcecDeriver struct {
	hasher  hash.Hash
	scalar  btcec.ModNScalar
	hashBuf [32]byte
}

func (d *btcecDeriver) DeriveAddress(secret *[SecretLen]byte, addr *[AddressLen]byte) error {
	// PrivKeyFromBytes reduces mod n silently, reject out of range input first
	if overflow := d.scalar.SetBytes(secret); overflow != 0 || d.scalar.IsZero() {
		return ErrInvalidScalar
	}
	_, pub := btcec.PrivKeyFromBytes(secret[:])
	uncompressed := pub.SerializeUncompressed()
	if len(uncompressed) != PubKeyLen+1 || uncompressed[0] != 0x04 {
		return fmt.Errorf("unexpected uncompressed public key encoding (%d bytes)", len(uncompressed))
	}

	AddressInto(d.hasher, uncompressed[1:], d.hashBuf[:], addr[:])
	return nil
}

// AddressInto hashes the 64-byte public key and writes the low 20 bytes of
// the digest into addrBuf. Reuses the provided hasher to avoid allocations.
// hashBuf must be at least 32 bytes, addrBuf must be 20 bytes.
func AddressInto(hasher hash.Hash, pubKey, hashBuf, addrBuf []byte) {
	hasher.Reset()
	hasher.Write(pubKey)
	sum := hasher.Sum(hashBuf[:0])
	copy(addrBuf, sum[12:32])
}

// DeriveAddress derives the address of secret with the default engine
func DeriveAddress(secret [SecretLen]byte) ([AddressLen]byte, error) {
	var addr [AddressLen]byte
	d, _ := NewDeriver(EngineDecred)
	if err := d.DeriveAddress(&secret, &addr); err != nil {
		return addr, err
	}
	return addr, nil
}

// DeriveWallet builds the full wallet for a winning secret. The mnemonic is a
// plain BIP-39 encoding of the secret used as entropy: its seed does NOT
// regenerate this key through BIP-32 derivation.
func DeriveWallet(secret [SecretLen]byte) (*types.Wallet, error) {
	addr, err := DeriveAddress(secret)
	if err != nil {
		return nil, err
	}

	w := &types.Wallet{
		Address:   "0x" + hex.EncodeToString(addr[:]),
		Checksum:  ChecksumAddress(addr[:]),
		SecretHex: "0x" + hex.EncodeToString(secret[:]),
	}
	if mnemonic, err := bip39.NewMnemonic(secret[:]); err == nil {
		w.Mnemonic = mnemonic
	}
	return w, nil
}

// ParseSecret decodes a 64 char hex secret, with or without 0x
func ParseSecret(s string) ([SecretLen]byte, error) {
	var secret [SecretLen]byte
	h := strings.TrimSpace(s)
	if len(h) >= 2 && (h[0:2] == "0x" || h[0:2] == "0X") {
		h = h[2:]
	}
	if len(h) != 2*SecretLen {
		return secret, fmt.Errorf("invalid secret length: got %d hex chars, want %d", len(h), 2*SecretLen)
	}
	if _, err := hex.Decode(secret[:], []byte(h)); err != nil {
		return secret, fmt.Errorf("invalid secret hex: %w", err)
	}
	return secret, nil
}

// ---- helpers ----

// Keccak256 calculates the legacy keccak256 hash of the input bytes
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

// ChecksumAddress converts a 20-byte address to its EIP-55 string.
// Only call when you need the string (e.g. for result output).
func ChecksumAddress(addr20 []byte) string {
	if len(addr20) != AddressLen {
		panic(errors.New("address must be 20 bytes"))
	}
	hexLower := hex.EncodeToString(addr20)
	hash := Keccak256([]byte(hexLower))

	var out strings.Builder
	out.Grow(2 + 2*AddressLen)
	out.WriteString("0x")
	for i := 0; i < len(hexLower); i++ {
		c := hexLower[i]
		if c >= '0' && c <= '9' {
			out.WriteByte(c)
			continue
		}
		// hash nibble i decides the case of hex char i
		n := (hash[i/2] >> uint(4*(1-i%2))) & 0xF
		if n >= 8 {
			out.WriteByte(c - 'a' + 'A')
		} else {
			out.WriteByte(c)
		}
	}
	return out.String()
}
