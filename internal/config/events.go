package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EventRouting is the hot-reloadable part of the event configuration.
type EventRouting struct {
	// Muted lists entity kinds (e.g. "kb_article") whose lifecycle events are not published.
	Muted []string `mapstructure:"muted"`
}

func (r EventRouting) IsMuted(kind string) bool {
	for _, m := range r.Muted {
		if strings.EqualFold(strings.TrimSpace(m), kind) {
			return true
		}
	}
	return false
}

type EventRoutingHolder struct {
	current atomic.Value // holds EventRouting
}

// NewStaticEventRoutingHolder returns a holder that never reloads.
func NewStaticEventRoutingHolder(r EventRouting) *EventRoutingHolder {
	h := &EventRoutingHolder{}
	h.current.Store(r)
	return h
}

func NewEventRoutingHolder(log *zap.Logger) (*EventRoutingHolder, error) {
	v := viper.New()

	v.SetConfigName("events")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/crm/config")
	v.AddConfigPath("/etc/crm")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("events.muted", []string{})

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	var routing EventRouting
	if err := v.UnmarshalKey("events", &routing); err != nil {
		return nil, err
	}

	holder := NewStaticEventRoutingHolder(routing)
	if !found {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated EventRouting
		if err := v.UnmarshalKey("events", &updated); err != nil {
			log.Warn("events config reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("events config reloaded", zap.String("file", e.Name), zap.Strings("muted", updated.Muted))
	})

	return holder, nil
}

func (h *EventRoutingHolder) Get() EventRouting {
	return h.current.Load().(EventRouting)
}
