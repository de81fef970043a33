package data

import (
	"errors"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/wechat_agent/app/preview/internal/conf"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/storage"
)

type Data struct {
	store storage.Store
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	if c == nil || c.Database == nil || c.Database.Driver == "" {
		return nil, nil, errors.New("data.database.driver is required")
	}
	db := c.Database
	store, err := storage.NewStore(config.DBConfig{
		Driver:   db.Driver,
		Host:     db.Host,
		Port:     db.Port,
		User:     db.User,
		Password: db.Password,
		Name:     db.Name,
		Path:     db.Path,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		store.Close()
	}
	return &Data{store: store}, cleanup, nil
}
