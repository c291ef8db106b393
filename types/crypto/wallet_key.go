package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/rigochain/rigo-vote/types"
	abytes "github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/xerrors"
	tmsecp256k1 "github.com/tendermint/tendermint/crypto/secp256k1"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/libs/tempfile"
	"golang.org/x/crypto/pbkdf2"
	"io"
	"os"
	"path/filepath"
)

const (
	Aes256CBC = "aes-256-cbc"
	Secp256K1 = tmsecp256k1.KeyType

	SymmAlgo  = Aes256CBC
	AsymmAlgo = Secp256K1
	DKLEN     = 32

	DefaultWalletKeyDir     = "walkeys"
	DefaultWalletKeyDirPerm = 0700
	DefaultWalletKeyPerm    = 0600
)

var (
	ErrWalletKeyLocked   = xerrors.New("wallet key is locked")
	ErrWrongPassphrase   = xerrors.New("wrong passphrase")
	ErrInvalidPKCS7Data  = xerrors.New("invalid PKCS7 data (empty or not padded)")
	ErrInvalidPKCS7Block = xerrors.New("invalid PKCS7 block size")
)

type cipherTextParams struct {
	Algo string `json:"ca"`
	Text []byte `json:"ct"`
	Iv   []byte `json:"ci,omitempty"`
}

type dkParams struct {
	Algo  string `json:"ka"`
	Prf   string `json:"kh"`
	Iter  int    `json:"kc"`
	Salt  []byte `json:"ks"`
	DkLen int    `json:"kl"`
}

// WalletKey is a secp256k1 private key encrypted with a key derived from a passphrase.
// The root account and the voters sign their transactions with it.
type WalletKey struct {
	Version          int               `json:"version"`
	Address          types.Address     `json:"address"`
	Algo             string            `json:"algo"`
	CipherTextParams *cipherTextParams `json:"cp"`
	DKParams         *dkParams         `json:"dkp"`

	prvKey []byte
	pubKey []byte
}

// NewWalletKey encrypts keyBytes with pass.
// When pass is nil, the key is saved as a plain text and the returned key is unlocked.
func NewWalletKey(keyBytes, pass []byte) (*WalletKey, error) {
	wk := &WalletKey{
		Version: 1,
		Algo:    AsymmAlgo,
		pubKey:  tmsecp256k1.PrivKey(keyBytes).PubKey().Bytes(),
	}

	addr, xerr := PubBytes2Addr(wk.pubKey)
	if xerr != nil {
		return nil, xerr
	}
	wk.Address = addr

	if pass == nil {
		wk.CipherTextParams = &cipherTextParams{
			Algo: SymmAlgo,
			Text: append([]byte(nil), keyBytes...),
		}
		wk.prvKey = append([]byte(nil), keyBytes...)
		return wk, nil
	}

	salt := abytes.RandBytes(DKLEN)
	iter := 20000 + int(binary.BigEndian.Uint16(salt[:2])>>8)
	sk := pbkdf2.Key(pass, salt, iter, DKLEN, DefaultHasher)
	defer abytes.ClearBytes(sk)

	block, err := aes.NewCipher(sk)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, block.BlockSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	plaintext, err := pkcs7Padding(append([]byte(nil), keyBytes...), block.BlockSize())
	if err != nil {
		return nil, err
	}
	defer abytes.ClearBytes(plaintext)

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	wk.CipherTextParams = &cipherTextParams{
		Algo: SymmAlgo,
		Text: ciphertext,
		Iv:   iv,
	}
	wk.DKParams = &dkParams{
		Algo:  "pbkdf2",
		Prf:   DefaultHasherName(),
		Iter:  iter,
		Salt:  salt,
		DkLen: DKLEN,
	}
	return wk, nil
}

func CreateWalletKey(pass []byte) (*WalletKey, error) {
	return NewWalletKey(tmsecp256k1.GenPrivKey(), pass)
}

func OpenWalletKey(r io.Reader) (*WalletKey, error) {
	bz, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	wk := &WalletKey{}
	if err := tmjson.Unmarshal(bz, wk); err != nil {
		return nil, err
	}
	return wk, nil
}

func OpenWalletKeyFile(path string) (*WalletKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return OpenWalletKey(f)
}

func (wk *WalletKey) Save(wr io.Writer) (int, error) {
	bz, err := tmjson.MarshalIndent(wk, "", "  ")
	if err != nil {
		return 0, err
	}
	return wr.Write(bz)
}

func (wk *WalletKey) SaveFile(path string) error {
	bz, err := tmjson.MarshalIndent(wk, "", "  ")
	if err != nil {
		return err
	}
	return tempfile.WriteFileAtomic(path, bz, DefaultWalletKeyPerm)
}

func (wk *WalletKey) IsLock() bool {
	return wk.prvKey == nil
}

func (wk *WalletKey) Lock() {
	abytes.ClearBytes(wk.prvKey)
	wk.prvKey = nil
}

// Unlock decrypts the private key with pass.
// The decrypted key must derive the address of the wallet key.
func (wk *WalletKey) Unlock(pass []byte) error {
	if !wk.IsLock() {
		return nil
	}

	var prvKey []byte
	if wk.DKParams == nil {
		prvKey = append([]byte(nil), wk.CipherTextParams.Text...)
	} else if pass == nil {
		return ErrWrongPassphrase.Wrapf("the passphrase can not be empty")
	} else {
		sk := pbkdf2.Key(pass, wk.DKParams.Salt, wk.DKParams.Iter, wk.DKParams.DkLen, DefaultHasher)
		defer abytes.ClearBytes(sk)

		block, err := aes.NewCipher(sk)
		if err != nil {
			return err
		}
		ciphertext := wk.CipherTextParams.Text
		if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
			return ErrInvalidPKCS7Data
		}
		plaintext := make([]byte, len(ciphertext))
		cipher.NewCBCDecrypter(block, wk.CipherTextParams.Iv).CryptBlocks(plaintext, ciphertext)

		if prvKey, err = pkcs7UnPadding(plaintext, block.BlockSize()); err != nil {
			return ErrWrongPassphrase.Wrap(err)
		}
	}

	if len(prvKey) != tmsecp256k1.PrivKeySize {
		abytes.ClearBytes(prvKey)
		return ErrWrongPassphrase
	}
	pubKey := tmsecp256k1.PrivKey(prvKey).PubKey().Bytes()
	if addr, xerr := PubBytes2Addr(pubKey); xerr != nil || !bytes.Equal(addr, wk.Address) {
		abytes.ClearBytes(prvKey)
		return ErrWrongPassphrase
	}

	wk.prvKey = prvKey
	wk.pubKey = pubKey
	return nil
}

func (wk *WalletKey) PrvKey() []byte {
	return wk.prvKey
}

func (wk *WalletKey) PrvKeyClone() []byte {
	if wk.prvKey == nil {
		return nil
	}
	return append([]byte(nil), wk.prvKey...)
}

// ECDSAKey returns the unlocked key in the form SignTrx accepts.
func (wk *WalletKey) ECDSAKey() (*ecdsa.PrivateKey, error) {
	if wk.IsLock() {
		return nil, ErrWalletKeyLocked
	}
	return ImportPrvKey(wk.prvKey)
}

func (wk *WalletKey) Sign(msg []byte) ([]byte, error) {
	if wk.IsLock() {
		return nil, ErrWalletKeyLocked
	}
	prv, err := ethcrypto.ToECDSA(wk.prvKey)
	if err != nil {
		return nil, err
	}
	return ethcrypto.Sign(DefaultHash(msg), prv)
}

func (wk *WalletKey) PubKey() []byte {
	return wk.pubKey
}

func (wk *WalletKey) String() string {
	bz, _ := tmjson.MarshalIndent(wk, "", "  ")
	return string(bz)
}

// CreateWalletKeyFiles creates cnt wallet keys encrypted with pass in dir.
// The file name is `wk<ADDRESS>.json`.
func CreateWalletKeyFiles(pass []byte, cnt int, dir string) ([]*WalletKey, error) {
	var wks []*WalletKey
	for i := 0; i < cnt; i++ {
		wk, err := CreateWalletKey(pass)
		if err != nil {
			return nil, err
		}
		if err := wk.SaveFile(WalletKeyFilePath(dir, wk.Address)); err != nil {
			return nil, err
		}
		wks = append(wks, wk)
	}
	return wks, nil
}

func WalletKeyFilePath(dir string, addr types.Address) string {
	return filepath.Join(dir, fmt.Sprintf("wk%X.json", []byte(addr)))
}

func pkcs7Padding(b []byte, blocksize int) ([]byte, error) {
	if blocksize <= 0 {
		return nil, ErrInvalidPKCS7Block
	}
	if len(b) == 0 {
		return nil, ErrInvalidPKCS7Data
	}
	n := blocksize - (len(b) % blocksize)
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...), nil
}

func pkcs7UnPadding(b []byte, blocksize int) ([]byte, error) {
	if blocksize <= 0 {
		return nil, ErrInvalidPKCS7Block
	}
	if len(b) == 0 || len(b)%blocksize != 0 {
		return nil, ErrInvalidPKCS7Data
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blocksize || n > len(b) {
		return nil, ErrInvalidPKCS7Data
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrInvalidPKCS7Data
		}
	}
	return b[:len(b)-n], nil
}
