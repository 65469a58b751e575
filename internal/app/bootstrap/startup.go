// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/minglehub/minglehub/internal/app/store/users"
	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// MingleHub promotes the configured admin account. The account must already
// exist (created by its first Google sign-in); until then the promotion is
// retried on every startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)
	u, err := users.GetByEmail(ctx, appCfg.AdminEmail)
	if err != nil {
		if apperr.IsDomain(err) {
			logger.Info("admin account not present yet, skipping promotion",
				zap.String("email", appCfg.AdminEmail))
			return nil
		}
		return err
	}
	if u.Role == models.RoleAdmin {
		return nil
	}

	u.Role = models.RoleAdmin
	if err := users.Save(ctx, u); err != nil {
		return err
	}
	logger.Info("promoted admin account",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", appCfg.AdminEmail))
	return nil
}
