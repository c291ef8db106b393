package crypto

import (
	"crypto/ecdsa"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/rigochain/rigo-vote/types"
	abytes "github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/xerrors"
	tmsecp256k1 "github.com/tendermint/tendermint/crypto/secp256k1"
	"hash"
)

func NewPrvKey() (*ecdsa.PrivateKey, error) {
	return ethcrypto.GenerateKey()
}

func ImportPrvKey(d []byte) (*ecdsa.PrivateKey, error) {
	return ethcrypto.ToECDSA(d)
}

func ImportPrvKeyHex(d string) (*ecdsa.PrivateKey, error) {
	return ethcrypto.HexToECDSA(d)
}

func ExportPrvKey(prv *ecdsa.PrivateKey) []byte {
	return ethcrypto.FromECDSA(prv)
}

func Sign(msg []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	hmsg := DefaultHash(msg)
	return ethcrypto.Sign(hmsg, prv)
}

func VerifySig(pubkey, msg, sig []byte) bool {
	hmsg := DefaultHash(msg)
	if len(sig) == ethcrypto.SignatureLength {
		sig = sig[:64]
	}
	return ethcrypto.VerifySignature(pubkey, hmsg, sig)
}

func Pub2Addr(pub *ecdsa.PublicKey) types.Address {
	pubKeyBytes := CompressPubkey(pub)
	ret, _ := PubBytes2Addr(pubKeyBytes)
	return ret
}

// PubBytes2Addr derives the address from a 33 bytes compressed public key.
func PubBytes2Addr(pubBytes []byte) (types.Address, xerrors.XError) {
	if len(pubBytes) != tmsecp256k1.PubKeySize {
		return nil, xerrors.NewOrdinary("wrong public key size")
	}
	return abytes.HexBytes(tmsecp256k1.PubKey(pubBytes).Address()), nil
}

func CompressPubkey(pub *ecdsa.PublicKey) abytes.HexBytes {
	return ethcrypto.CompressPubkey(pub)
}

func Sig2Addr(msg, sig []byte) (types.Address, abytes.HexBytes, xerrors.XError) {
	hmsg := DefaultHash(msg)
	pubKey, err := ethcrypto.SigToPub(hmsg, sig)
	if err != nil {
		return nil, nil, xerrors.From(err)
	}

	return Pub2Addr(pubKey), CompressPubkey(pubKey), nil
}

func DefaultHash(datas ...[]byte) []byte {
	hasher := DefaultHasher()
	for _, bz := range datas {
		hasher.Write(bz)
	}
	return hasher.Sum(nil)
}

func DefaultHasher() hash.Hash {
	return ethcrypto.NewKeccakState()
}

func DefaultHasherName() string {
	return "keccak256"
}
