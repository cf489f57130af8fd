package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ThemeTopicPrefix is the topic namespace for theme change events.
const ThemeTopicPrefix = "event/theme"

// Client provides a common MQTT client interface for the crmpro services
type Client struct {
	client mqtt.Client

	stopOnce sync.Once
	stopCh   chan struct{}
}

// Config holds MQTT client configuration
type Config struct {
	ServerURL         string
	ClientID          string
	MaxRetries        int           // Maximum number of connection retries (0 = infinite)
	InitialRetryDelay time.Duration // Initial delay between retries
	MaxRetryDelay     time.Duration // Maximum delay between retries
	OnConnect         func(*Client) // Callback to execute when connected
}

// ThemeEvent is published whenever a visitor changes the page theme.
type ThemeEvent struct {
	Session   string `json:"session"`
	Theme     string `json:"theme"`
	Timestamp string `json:"timestamp"`
}

// ThemeTopic returns the topic for a theme event, e.g. event/theme/dark.
func ThemeTopic(theme string) string {
	return fmt.Sprintf("%s/%s", ThemeTopicPrefix, theme)
}

// ParseThemeEvent decodes a theme event received on topic. The theme in
// the topic takes precedence over an empty payload field.
func ParseThemeEvent(topic string, payload []byte) (ThemeEvent, error) {
	var event ThemeEvent

	theme, ok := strings.CutPrefix(topic, ThemeTopicPrefix+"/")
	if !ok || theme == "" || strings.Contains(theme, "/") {
		return event, fmt.Errorf("%w: %s", ErrInvalidTopic, topic)
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &event); err != nil {
			return event, fmt.Errorf("failed to decode theme event: %w", err)
		}
	}
	if event.Theme == "" {
		event.Theme = theme
	}

	return event, nil
}

// ParseServerURL checks that serverURL is an mqtt:// URL.
func ParseServerURL(serverURL string) (*url.URL, error) {
	parsedURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if parsedURL.Scheme != "mqtt" {
		return nil, fmt.Errorf("%w: must use mqtt:// scheme", ErrInvalidURL)
	}

	return parsedURL, nil
}

// NewClient creates a new MQTT client with the given configuration
// The client will attempt to connect asynchronously and retry if the initial connection fails
func NewClient(config Config) (*Client, error) {
	if _, err := ParseServerURL(config.ServerURL); err != nil {
		return nil, err
	}

	// Set default retry values if not specified
	initialDelay := config.InitialRetryDelay
	if initialDelay == 0 {
		initialDelay = time.Second
	}
	maxDelay := config.MaxRetryDelay
	if maxDelay == 0 {
		maxDelay = 30 * time.Second
	}

	c := &Client{stopCh: make(chan struct{})}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.ServerURL)
	opts.SetClientID(config.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(maxDelay)
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Printf("connected to MQTT broker at %s", config.ServerURL)

		if config.OnConnect != nil {
			config.OnConnect(c)
		}
	})

	c.client = mqtt.NewClient(opts)

	// Start async connection with retry logic
	go func() {
		delay := initialDelay
		attempt := 0
		for {
			token := c.client.Connect()
			if token.Wait() && token.Error() == nil {
				return
			}

			attempt++
			if config.MaxRetries > 0 && attempt >= config.MaxRetries {
				log.Printf("failed to connect to MQTT broker after %d attempts, giving up: %v", attempt, token.Error())
				return
			}

			log.Printf("failed to connect to MQTT broker (attempt %d): %v. Retrying in %v...", attempt, token.Error(), delay)
			select {
			case <-time.After(delay):
			case <-c.stopCh:
				return
			}

			// Exponential backoff
			delay = delay * 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}
	}()

	return c, nil
}

// Publish publishes a message to the specified topic
func (c *Client) Publish(topic string, qos byte, retained bool, payload interface{}) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	if token := c.client.Publish(topic, qos, retained, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish MQTT message: %w", token.Error())
	}

	return nil
}

// PublishThemeEvent publishes a theme change to event/theme/<theme>.
func (c *Client) PublishThemeEvent(session, theme string) error {
	event := ThemeEvent{
		Session:   session,
		Theme:     theme,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	return c.Publish(ThemeTopic(theme), 0, false, eventJSON)
}

// Subscribe subscribes to a topic with the given message handler
func (c *Client) Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	wrappedHandler := func(client mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	}

	if token := c.client.Subscribe(topic, qos, wrappedHandler); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to MQTT topic %s: %w", topic, token.Error())
	}

	return nil
}

// IsConnected returns true if the client is connected to the MQTT broker
func (c *Client) IsConnected() bool {
	return c != nil && c.client != nil && c.client.IsConnected()
}

// Disconnect stops any pending reconnect attempts and disconnects from
// the MQTT broker
func (c *Client) Disconnect(quiesce uint) {
	c.stopOnce.Do(func() { close(c.stopCh) })
	if c.IsConnected() {
		c.client.Disconnect(quiesce)
		log.Printf("disconnected from MQTT broker")
	}
}
