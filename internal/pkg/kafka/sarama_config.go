package kafka

import (
	"Amem/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

func applySasl(c *sarama.Config, kafkaCfg config.KafkaConfig) {
	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}
}

// newConsumerConfig 消费组统一配置，offset 手动提交
func newConsumerConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	applySasl(c, kafkaCfg)

	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Offsets.AutoCommit.Enable = false

	cc := kafkaCfg.Consumer
	if cc.SessionTimeout > 0 {
		c.Consumer.Group.Session.Timeout = time.Duration(cc.SessionTimeout) * time.Second
	}
	if cc.HeartbeatInterval > 0 {
		c.Consumer.Group.Heartbeat.Interval = time.Duration(cc.HeartbeatInterval) * time.Second
	}
	if cc.RebalanceTimeout > 0 {
		c.Consumer.Group.Rebalance.Timeout = time.Duration(cc.RebalanceTimeout) * time.Second
	}
	if cc.MaxProcessingTime > 0 {
		c.Consumer.MaxProcessingTime = time.Duration(cc.MaxProcessingTime) * time.Second
	}

	return c
}

// newProducerConfig 同步生产者配置
func newProducerConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	applySasl(c, kafkaCfg)

	c.Producer.RequiredAcks = sarama.WaitForLocal
	c.Producer.Retry.Max = 3
	c.Producer.Timeout = 3 * time.Second
	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true

	return c
}
