package wire

import (
	"Amem/internal/api"
	"Amem/internal/api/config"
	"Amem/internal/api/handler"
	"Amem/internal/job"
	"Amem/internal/pkg/cron"
	"Amem/internal/pkg/kafka"
	"Amem/internal/pkg/mongo"
	"Amem/internal/repository"
	"Amem/internal/service"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	Publisher    kafka.EventPublisher
	KafkaManager *kafka.ConsumerManager // Kafka 或 MongoDB 未启用时为 nil
	CronMgr      *cron.Manager
}

// BuildApplication 组装依赖，mdb 为 nil 时不提供站内通知
func BuildApplication(db *gorm.DB, mdb *mongoDB.Database, cfg *config.Config) (*ApplicationContainer, error) {
	var publisher kafka.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enable {
		p, err := kafka.NewSyncPublisher(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		publisher = p
	}
	return buildWithPublisher(db, mdb, cfg, publisher)
}

// BuildWithPublisher 使用指定的事件发布者组装，测试中传入 NopPublisher 或 mock
func BuildWithPublisher(db *gorm.DB, cfg *config.Config, publisher kafka.EventPublisher) (*ApplicationContainer, error) {
	return buildWithPublisher(db, nil, cfg, publisher)
}

func buildWithPublisher(db *gorm.DB, mdb *mongoDB.Database, cfg *config.Config, publisher kafka.EventPublisher) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepo(db)
	postActionRepo := repository.NewPostActionRepo(db)
	commentRepo := repository.NewCommentRepo(db)

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, postActionRepo, publisher)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, publisher)

	handlers := &api.HandlersGroup{
		UserHandler:    handler.NewUserHandler(userService),
		PostHandler:    handler.NewPostHandler(postService),
		CommentHandler: handler.NewCommentHandler(commentService),
	}

	var kafkaMgr *kafka.ConsumerManager
	if mdb != nil {
		sysBoxRepo := mongo.NewSysBoxRepo(mdb)
		handlers.SysBoxHandler = handler.NewSysBoxHandler(service.NewSysBoxService(sysBoxRepo, userRepo))

		if cfg.Kafka.Enable {
			var err error
			kafkaMgr, err = kafka.NewConsumerManager(cfg.Kafka, kafka.NewNotifyHandler(sysBoxRepo))
			if err != nil {
				return nil, err
			}
		}
	}

	router := api.SetupRouter(handlers, cfg)
	cronMgr := cron.NewCronManager(job.NewCommentCountJob(postService), cfg.Cron.CommentCountSpec)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		Publisher:    publisher,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
