package gate

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/models"
)

// RoleDefaults maps role names to their default permission sets. Per-user
// custom permissions (User.Permissions CSV) are added on top.
var RoleDefaults = map[string][]Permission{
	"admin": {SuperAdmin},
	"manager": {
		"client:*", "article:*", "document:*", "payment:*", "company:view",
	},
	"user": {
		"client:view", "article:view", "document:view", "document:create",
		"document:update", "payment:view",
	},
}

// DBResolver resolves a user's role and custom grants from the database.
type DBResolver struct {
	DB *gorm.DB
}

func NewDBResolver(db *gorm.DB) *DBResolver { return &DBResolver{DB: db} }

func (r *DBResolver) Resolve(ctx context.Context, userID uint) ([]Permission, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Role").First(&user, userID).Error; err != nil {
		return nil, err
	}
	perms := append([]Permission(nil), RoleDefaults[user.Role.Name]...)
	for _, raw := range strings.Split(user.Permissions, ",") {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			perms = append(perms, Permission(raw))
		}
	}
	return perms, nil
}
