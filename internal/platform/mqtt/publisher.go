// Package mqtt はTodoの変更イベントをMQTTブローカーへ発行するパブリッシャーを提供します。
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"todo_backend/internal/feature/todos/domain/entity"
	"todo_backend/internal/feature/todos/usecase"
)

const (
	// DefaultTopic はイベント発行先トピックの接頭辞のデフォルト値です。
	DefaultTopic = "todos/events"
	// DefaultClientID はMQTTクライアントIDのデフォルト値です。
	DefaultClientID = "todo-backend"

	connectTimeout = 5 * time.Second
	// DefaultPublishTimeout bounds the wait for a QoS 1 acknowledgement.
	// While paho reconnects, a publish stays queued and its token pending.
	DefaultPublishTimeout = 3 * time.Second
	qos                   = byte(1)
)

// Config はMQTT接続設定です。
type Config struct {
	Broker   string // 例: tcp://localhost:1883。空の場合はイベントを発行しない
	Topic    string
	ClientID string
	Username string
	Password string
}

// LoadConfig は環境変数からMQTT設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		Broker:   os.Getenv("MQTT_BROKER"),
		Topic:    os.Getenv("MQTT_TOPIC"),
		ClientID: os.Getenv("MQTT_CLIENT_ID"),
		Username: os.Getenv("MQTT_USERNAME"),
		Password: os.Getenv("MQTT_PASSWORD"),
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	return cfg
}

// Publisher はTodoEventをJSONとして "<topic>/<user_id>" に発行します。
type Publisher struct {
	client  paho.Client
	topic   string
	timeout time.Duration
}

// PublisherがEventPublisherを実装していることをコンパイル時に検証します。
var _ usecase.EventPublisher = (*Publisher)(nil)

// NewPublisher は接続済みのクライアントからPublisherを生成します。
func NewPublisher(client paho.Client, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{client: client, topic: topic, timeout: DefaultPublishTimeout}
}

// Connect はブローカーへ接続してPublisherを返します。
// 接続が切れた場合はpahoの自動再接続に任せます。
func Connect(cfg Config) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			slog.Warn("MQTT connection lost", "broker", cfg.Broker, "error", err)
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s failed: %w", cfg.Broker, err)
	}

	slog.Info("MQTT connection successful", "broker", cfg.Broker, "topic", cfg.Topic)
	return NewPublisher(client, cfg.Topic), nil
}

// Topic はユーザーごとの発行先トピックを返します。
func (p *Publisher) Topic(userID uint) string {
	return fmt.Sprintf("%s/%d", p.topic, userID)
}

// Publish はイベントを発行し、ブローカーの受領・ctxの終了・発行タイムアウトのいずれかまで待機します。
func (p *Publisher) Publish(ctx context.Context, ev entity.TodoEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal todo event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	token := p.client.Publish(p.Topic(ev.UserID), qos, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt publish failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close はブローカーとの接続を切断します。
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
