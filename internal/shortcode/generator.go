package shortcode

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/sqids/sqids-go"
)

const (
	// Charset 包含用于生成短码的所有字符
	Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// CodeLength 是生成的短码的最小长度
	CodeLength = 7
	// randomBits 随机空间为 2^40, 编码后长度在 7-8 位
	randomBits = 40
)

// Source 短码来源, 便于测试注入
type Source interface {
	Generate() (string, error)
}

// Generator 用加密安全的随机数生成短码, 经 sqids 编码后自带敏感词过滤.
// 唯一性由存储层的唯一索引保证, 这里不查库
type Generator struct {
	sqids *sqids.Sqids
}

// NewGenerator 创建短码生成器
func NewGenerator() (*Generator, error) {
	s, err := sqids.New(sqids.Options{
		Alphabet:  Charset,
		MinLength: CodeLength,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化短码生成器失败: %w", err)
	}
	return &Generator{sqids: s}, nil
}

// Generate 生成一个随机短码
func (g *Generator) Generate() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint64(b[:]) >> (64 - randomBits)
	return g.sqids.Encode([]uint64{n})
}
