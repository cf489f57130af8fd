package landing

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/larsks/crmpro/internal/cli"
	"github.com/larsks/crmpro/internal/content"
	"github.com/larsks/crmpro/internal/httpserver"
	"github.com/larsks/crmpro/internal/mqtt"
)

// Handler implements cli.CommandHandler for the landing server
type Handler struct{}

// NewHandler creates a new landing command handler
func NewHandler() *Handler {
	return &Handler{}
}

// Start loads the page content, connects to MQTT when configured and
// serves until interrupted.
func (h *Handler) Start(config cli.Configurable) error {
	cfg, ok := config.(*Config)
	if !ok {
		return ErrInvalidConfigType
	}

	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	srv, err := NewServer(cfg, site)
	if err != nil {
		return err
	}

	if cfg.MQTTServer != "" {
		client, err := mqtt.NewClient(mqtt.Config{
			ServerURL: cfg.MQTTServer,
			ClientID:  "crmpro-server-" + uuid.NewString()[:8],
			OnConnect: func(c *mqtt.Client) {
				if err := c.Subscribe(mqtt.ThemeTopic("+"), 0, logThemeEvent); err != nil {
					log.Printf("failed to subscribe to theme events: %v", err)
				}
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create MQTT client: %w", err)
		}
		defer client.Disconnect(250)
		srv.SetPublisher(client)
	}

	log.Printf("serving %q (trail enabled: %t)", site.Title, cfg.Trail.Enabled)
	return httpserver.StartFromConfig(cfg, srv, srv.Close)
}

// logThemeEvent records theme changes seen on the broker, including
// those made by other server instances.
func logThemeEvent(topic string, payload []byte) {
	event, err := mqtt.ParseThemeEvent(topic, payload)
	if err != nil {
		log.Printf("ignoring message on %s: %v", topic, err)
		return
	}
	log.Printf("visitor %s switched to %s theme", event.Session, event.Theme)
}
