package provider

import (
	"context"
)

// IdentitySession 认证服务商侧的会话视图
type IdentitySession struct {
	Id           string `json:"id"`
	Status       string `json:"status"`
	Url          string `json:"url"`
	ClientSecret string `json:"client_secret"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// IdentityClient 身份认证服务商客户端。
// 外部协作方，只定义接口边界；状态查询端点用它获取服务商侧实时状态。
type IdentityClient interface {
	GetSession(ctx context.Context, sessionId string) (*IdentitySession, error)
}

// StubIdentityClient 未配置服务商时的占位实现，返回处理中状态
type StubIdentityClient struct{}

// GetSession 返回处理中状态的会话
func (StubIdentityClient) GetSession(_ context.Context, sessionId string) (*IdentitySession, error) {
	return &IdentitySession{
		Id:     sessionId,
		Status: "processing",
	}, nil
}
