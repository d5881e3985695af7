package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

const settingsKey = "erp:settings"

// SettingsStore keeps the single application settings object as one
// JSON value in the key-value store. The documented defaults are
// written exactly once, the first time Load finds the key absent.
type SettingsStore struct {
	client *redis.Client
}

func NewSettingsStore(client *redis.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

// Load returns the persisted settings, seeding the defaults when the
// key does not exist yet. SetNX keeps a concurrent first Load from
// clobbering a settings object written in between.
func (s *SettingsStore) Load(ctx context.Context) (domain.Settings, error) {
	raw, err := s.client.Get(ctx, settingsKey).Result()
	if errors.Is(err, redis.Nil) {
		defaults := domain.DefaultSettings()
		encoded, marshalErr := json.Marshal(defaults)
		if marshalErr != nil {
			return domain.Settings{}, fmt.Errorf("encode default settings: %w", marshalErr)
		}
		if err := s.client.SetNX(ctx, settingsKey, encoded, 0).Err(); err != nil {
			return domain.Settings{}, fmt.Errorf("seed default settings: %w", err)
		}
		return defaults, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// Save replaces the settings object.
func (s *SettingsStore) Save(ctx context.Context, settings domain.Settings) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.client.Set(ctx, settingsKey, encoded, 0).Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
