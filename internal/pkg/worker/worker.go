package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/guilherme-ufscar/restaurante-sub001/pkg/cache"

	"github.com/redis/go-redis/v9"
)

// 订单事件类型
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

// NewOrderFlagTTL 新订单标记在 Redis 中的存活时间
// 与餐厅端轮询的 30 秒回看窗口对齐
const NewOrderFlagTTL = 30 * time.Second

// OrderEventTask 订单事件任务
// 下单和状态流转后的旁路传播：失效看板缓存、打新订单标记
type OrderEventTask struct {
	RestaurantID string
	OrderID      string
	Event        string
	NewStatus    string
	Retry        int // 重试次数
}

// Pool 订单事件处理池
type Pool struct {
	TaskQueue  chan OrderEventTask
	RetryQueue chan OrderEventTask
	cache      cache.CacheService
	rdb        *redis.Client
	WorkerNum  int
	MaxRetry   int
}

func NewPool(cacheService cache.CacheService, rdb *redis.Client, workerNum int, bufferSize int) *Pool {
	return &Pool{
		TaskQueue:  make(chan OrderEventTask, bufferSize),
		RetryQueue: make(chan OrderEventTask, bufferSize/2),
		cache:      cacheService,
		rdb:        rdb,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	log.Printf("Order event pool started with %d workers", p.WorkerNum)
}

func (p *Pool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.processTask(task); err != nil {
			log.Printf("[Worker %d] Failed to process order event (OrderID: %s): %v", id, task.OrderID, err)

			// 如果未达到最大重试次数，加入重试队列
			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
				default:
					log.Printf("[Worker %d] Retry queue full, task dropped: %+v", id, task)
				}
			} else {
				log.Printf("[Worker %d] Task exceeded max retries, dropped: %+v", id, task)
			}
		}
	}
}

func (p *Pool) retryWorker() {
	for task := range p.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case p.TaskQueue <- task:
		default:
			log.Printf("[RetryWorker] Main queue full, task dropped: %+v", task)
		}
	}
}

func (p *Pool) processTask(task OrderEventTask) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. 失效餐厅订单看板缓存
	if err := p.cache.InvalidatePattern(ctx, DashboardCachePattern(task.RestaurantID)); err != nil {
		return err
	}

	// 2. 新订单打标记，餐厅端轮询接口优先查这个标记
	if task.Event == EventOrderCreated {
		flag := NewOrderFlagKey(task.RestaurantID)
		if err := p.rdb.Set(ctx, flag, task.OrderID, NewOrderFlagTTL).Err(); err != nil {
			return err
		}
	}

	return nil
}

// AddTask 任务入队，队列满时丢弃并记录
func (p *Pool) AddTask(task OrderEventTask) {
	select {
	case p.TaskQueue <- task:
	default:
		log.Printf("Order event pool queue full, dropping task: %+v", task)
	}
}

// DashboardCachePattern 餐厅订单看板缓存键模式
func DashboardCachePattern(restaurantID string) string {
	return fmt.Sprintf("dashboard:orders:%s:*", restaurantID)
}

// NewOrderFlagKey 新订单标记键
func NewOrderFlagKey(restaurantID string) string {
	return fmt.Sprintf("orders:new:%s", restaurantID)
}
