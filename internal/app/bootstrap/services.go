// internal/app/bootstrap/services.go
package bootstrap

import (
	"github.com/dalemusser/reliefhub/internal/app/services/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/services/analytics"
	"github.com/dalemusser/reliefhub/internal/app/services/cms"
	"github.com/dalemusser/reliefhub/internal/app/services/helprequests"
	"github.com/dalemusser/reliefhub/internal/app/services/inventory"
	"github.com/dalemusser/reliefhub/internal/app/services/publicinfo"
	"github.com/dalemusser/reliefhub/internal/app/services/volunteers"
	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	adminuserstore "github.com/dalemusser/reliefhub/internal/app/store/adminusers"
	donationstore "github.com/dalemusser/reliefhub/internal/app/store/donations"
	helprequeststore "github.com/dalemusser/reliefhub/internal/app/store/helprequests"
	inventorystore "github.com/dalemusser/reliefhub/internal/app/store/inventory"
	loginstore "github.com/dalemusser/reliefhub/internal/app/store/logins"
	publicinfostore "github.com/dalemusser/reliefhub/internal/app/store/publicinfo"
	sitecontentstore "github.com/dalemusser/reliefhub/internal/app/store/sitecontent"
	volunteerstore "github.com/dalemusser/reliefhub/internal/app/store/volunteers"
	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// appServices is the wired service layer shared by Startup and BuildHandler.
type appServices struct {
	Tokens       *auth.Manager
	Logins       *loginstore.Store
	AdminUsers   *adminusers.Service
	HelpRequests *helprequests.Service
	Volunteers   *volunteers.Service
	Inventory    *inventory.Service
	CMS          *cms.Service
	Analytics    *analytics.Service
	PublicInfo   *publicinfo.Service
}

// newServices builds the stores over db and the services over the stores.
func newServices(appCfg AppConfig, db *mongo.Database, logger *zap.Logger) (*appServices, error) {
	tokens, err := auth.NewManager(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	if err != nil {
		return nil, err
	}

	adminStore := adminuserstore.New(db)
	tokens.SetUserFetcher(adminStore)

	activityStore := activity.New(db)
	requestStore := helprequeststore.New(db)
	volunteerStore := volunteerstore.New(db)
	inventoryStore := inventorystore.New(db)
	audit := auditlog.New(activityStore, logger, appCfg.auditConfig())

	return &appServices{
		Tokens:       tokens,
		Logins:       loginstore.New(db),
		AdminUsers:   adminusers.New(adminStore, tokens, audit, activityStore, logger),
		HelpRequests: helprequests.New(requestStore, volunteerStore, audit, logger),
		Volunteers:   volunteers.New(volunteerStore, requestStore, txn.Runner{DB: db, Log: logger}, audit, logger),
		Inventory:    inventory.New(inventoryStore, audit, logger),
		CMS:          cms.New(sitecontentstore.New(db), audit, logger),
		Analytics:    analytics.New(requestStore, volunteerStore, inventoryStore, activityStore),
		PublicInfo:   publicinfo.New(publicinfostore.New(db), donationstore.New(db), logger),
	}, nil
}
