package auth

// 角色名称
const (
	RoleCampaignReviewer = "campaign_reviewer"
)

// RoleChecker 权限能力检查，外部协作方提供具体实现。
// 审核端点只消费是/否结果。
type RoleChecker interface {
	HasRole(userId int64, role string) bool
}

// StaticRoleChecker 基于配置的固定角色表实现
type StaticRoleChecker struct {
	reviewerIds map[int64]bool
}

// NewStaticRoleChecker 从管理员用户ID列表创建检查器
func NewStaticRoleChecker(reviewerIds []int64) *StaticRoleChecker {
	ids := make(map[int64]bool, len(reviewerIds))
	for _, id := range reviewerIds {
		ids[id] = true
	}
	return &StaticRoleChecker{reviewerIds: ids}
}

// HasRole 检查用户是否拥有指定角色
func (c *StaticRoleChecker) HasRole(userId int64, role string) bool {
	if role != RoleCampaignReviewer {
		return false
	}
	return c.reviewerIds[userId]
}
