// Package dao manages the MySQL connection, schema migration and the
// global repository aggregate.
package dao

import (
	"fmt"

	"vega_social_server/internal/config"
	"vega_social_server/internal/dao/mysql/repository"
	"vega_social_server/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// GormDB is the global GORM handle.
var GormDB *gorm.DB

// Repos is the global repository aggregate, injected into the service layer.
var Repos *repository.Repositories

// Init connects to MySQL, migrates the schema and builds the repositories.
// TranslateError is on so duplicate-key failures surface as
// gorm.ErrDuplicatedKey, which the state machine relies on for its
// first-committer-wins tie-break.
func Init() {
	conf := config.GetConfig()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	err = GormDB.AutoMigrate(
		&model.UserInfo{},
		&model.FriendRequest{},
		&model.Friendship{},
		&model.Notification{},
		&model.ActivityEvent{},
		&model.PresenceRecord{},
	)
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	Repos = repository.NewRepositories(GormDB)
}
