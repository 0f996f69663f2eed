package types

import "time"

// Wallet is the winning account
type Wallet struct {
	Address   string // 0x + 40 lowercase hex
	Checksum  string // EIP-55 rendering of Address, display only
	SecretHex string // 0x + 64 lowercase hex
	Mnemonic  string // BIP-39 encoding of the secret, empty if the encoder rejected it
}

// HasMnemonic reports whether the mnemonic could be derived
func (w *Wallet) HasMnemonic() bool {
	return w.Mnemonic != ""
}

// Result represents a mining result
type Result struct {
	Wallet   Wallet
	Attempts uint64
	Duration time.Duration

	// Not contractual, printed in verbose mode only
	WorkerID       int
	WorkerAttempts uint64
}

// Rate returns the average number of attempts per second
func (r *Result) Rate() float64 {
	if r.Duration.Seconds() <= 0 {
		return 0
	}
	return float64(r.Attempts) / r.Duration.Seconds()
}

// Stats is a snapshot of the search progress
type Stats struct {
	Attempts uint64
	Elapsed  time.Duration
}
