package urlsafe

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const encryptedPrefix = "enc:v1:"

var ErrCorruptCiphertext = errors.New("encrypted url is corrupt")

// Codec 负责原始链接入库前后的编解码
type Codec interface {
	Encode(plain string) (string, error)
	Decode(stored string) (string, error)
}

// PlainCodec 不做任何处理
type PlainCodec struct{}

func (PlainCodec) Encode(plain string) (string, error)  { return plain, nil }
func (PlainCodec) Decode(stored string) (string, error) { return stored, nil }

// Cipher 使用 XChaCha20-Poly1305 加密存储的链接
type Cipher struct {
	key []byte
}

// NewCipher 从 base64 编码的 32 字节密钥创建 Cipher
func NewCipher(encodedKey string) (*Cipher, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode url encryption key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("url encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &Cipher{key: key}, nil
}

// NewCodec 密钥为空时返回 PlainCodec
func NewCodec(encodedKey string) (Codec, error) {
	if encodedKey == "" {
		return PlainCodec{}, nil
	}
	return NewCipher(encodedKey)
}

func (c *Cipher) Encode(plain string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return encryptedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode 对未加密的历史数据原样返回
func (c *Cipher) Decode(stored string) (string, error) {
	if !strings.HasPrefix(stored, encryptedPrefix) {
		return stored, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(stored, encryptedPrefix))
	if err != nil {
		return "", ErrCorruptCiphertext
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrCorruptCiphertext
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrCorruptCiphertext
	}
	return string(plain), nil
}
