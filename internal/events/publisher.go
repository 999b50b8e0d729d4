package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/xiebiao/inventory/internal/infrastructure/config"
	"github.com/xiebiao/inventory/pkg/metrics"
	"github.com/xiebiao/inventory/pkg/mq"
)

// Publisher 事件发布接口
// 约定：实现必须非阻塞且不向调用方返回发布错误——事件是事后通知，
// 发布失败不应导致已提交的业务操作回滚或报错
type Publisher interface {
	Publish(ctx context.Context, topic string, env *Envelope)
	Close() error
}

// NewPublisher 根据配置创建事件发布器
// driver=log时事件只写日志（开发/测试默认），driver=rabbitmq时发布到交换机
func NewPublisher(cfg *config.Config) (Publisher, error) {
	switch cfg.MQ.Driver {
	case "", "log":
		return NewLogPublisher(), nil
	case "rabbitmq":
		return NewAMQPPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
	default:
		return nil, fmt.Errorf("不支持的MQ驱动: %s", cfg.MQ.Driver)
	}
}

// LogPublisher 日志事件发布器
// 把事件序列化后写入标准日志，用于无MQ环境
type LogPublisher struct{}

// NewLogPublisher 创建日志事件发布器
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish 打印事件日志
func (p *LogPublisher) Publish(_ context.Context, topic string, env *Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("事件序列化失败 topic=%s: %v", topic, err)
		metrics.IncEventPublished(topic, "error")
		return
	}

	log.Printf("[事件] topic=%s payload=%s", topic, data)
	metrics.IncEventPublished(topic, "success")
}

// Close 日志发布器无需关闭
func (p *LogPublisher) Close() error {
	return nil
}

// AMQPPublisher RabbitMQ事件发布器
//
// 设计说明：
// 1. 使用topic交换机，路由键形如inventory.reserved
// 2. 发布放入内部队列由单goroutine异步执行，不阻塞业务请求
// 3. 发布失败只记日志和指标，不重试不回调
type AMQPPublisher struct {
	producer *mq.Publisher
	queue    chan publishTask
	done     chan struct{}
}

type publishTask struct {
	topic string
	env   *Envelope
}

// NewAMQPPublisher 创建RabbitMQ事件发布器
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	producer, err := mq.NewPublisher(url, exchange, "topic")
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	p := &AMQPPublisher{
		producer: producer,
		queue:    make(chan publishTask, 256),
		done:     make(chan struct{}),
	}
	go p.loop()

	log.Println("✓ RabbitMQ事件发布器就绪")
	return p, nil
}

// Publish 将事件投入发布队列（队列满时丢弃并记录）
func (p *AMQPPublisher) Publish(_ context.Context, topic string, env *Envelope) {
	select {
	case p.queue <- publishTask{topic: topic, env: env}:
	default:
		log.Printf("事件队列已满，丢弃事件 topic=%s event_id=%s", topic, env.EventID)
		metrics.IncEventPublished(topic, "dropped")
	}
}

// loop 后台发布循环
func (p *AMQPPublisher) loop() {
	for {
		select {
		case task := <-p.queue:
			ctx := context.Background()
			if err := p.producer.Publish(ctx, task.topic, task.env); err != nil {
				log.Printf("事件发布失败 topic=%s event_id=%s: %v", task.topic, task.env.EventID, err)
				metrics.IncEventPublished(task.topic, "error")
				continue
			}
			metrics.IncEventPublished(task.topic, "success")
		case <-p.done:
			return
		}
	}
}

// Close 停止发布循环并关闭连接
func (p *AMQPPublisher) Close() error {
	close(p.done)
	return p.producer.Close()
}
