package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrMissingSignature = errors.New("缺少签名头")
	ErrInvalidSignature = errors.New("签名校验失败")
)

// VerifySignature 校验服务商webhook签名。
// 签名头格式为 "sha256=<hex>"，对原始请求体做HMAC-SHA256比对。
// 校验通过之前不做任何状态变更。
func VerifySignature(payload []byte, header, secret string) error {
	if header == "" {
		return ErrMissingSignature
	}

	signature := strings.TrimPrefix(header, "sha256=")
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	if !hmac.Equal(mac.Sum(nil), expected) {
		return ErrInvalidSignature
	}

	return nil
}

// Sign 计算负载的签名头，测试和本地联调使用
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
