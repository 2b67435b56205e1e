package swap

import (
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// DeriveOrderID computes the deterministic identifier for the supplied
// (give, want) pair: keccak256 over the give collection, the give token id,
// the want collection and the want token id, with token ids encoded as
// 32-byte big-endian words. Matching works because the completer derives the
// identical id from the mirrored tuple.
func DeriveOrderID(give, want Asset) [32]byte {
	buf := make([]byte, 0, 104)
	buf = append(buf, give.Collection[:]...)
	buf = append(buf, tokenIDWord(give.TokenID)...)
	buf = append(buf, want.Collection[:]...)
	buf = append(buf, tokenIDWord(want.TokenID)...)
	return ethcrypto.Keccak256Hash(buf)
}

func tokenIDWord(id *big.Int) []byte {
	var word [32]byte
	if id != nil && id.Sign() > 0 {
		id.FillBytes(word[:])
	}
	return word[:]
}
