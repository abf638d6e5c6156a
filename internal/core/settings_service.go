package core

import (
	"context"
	"fmt"
	"log/slog"

	"gwi.com/voicepilot/internal/store"
)

// SettingsService manages the application-wide settings row.
type SettingsService struct {
	client *store.Client
	log    *slog.Logger
}

func NewSettingsService(c *store.Client, logger *slog.Logger) *SettingsService {
	return &SettingsService{client: c, log: logger}
}

var defaultSettingsWhere = store.SettingsWhereUniqueInput{ID: store.Ptr(store.DefaultSettingsID)}

// Get returns the settings, creating the default row on first use.
func (s *SettingsService) Get(ctx context.Context) (*store.Settings, error) {
	return getSettings(ctx, s.client, s.log)
}

// getSettings reads or creates the default row. c must not be a transaction
// client: after a lost unique race Postgres aborts the transaction and the
// second read would fail.
func getSettings(ctx context.Context, c *store.Client, log *slog.Logger) (*store.Settings, error) {
	settings, err := c.Settings.FindUnique(ctx, store.SettingsFindUniqueArgs{Where: defaultSettingsWhere})
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings != nil {
		return settings, nil
	}
	settings, err = c.Settings.Create(ctx, store.SettingsCreateArgs{
		Data: store.SettingsCreateInput{ID: store.Ptr(store.DefaultSettingsID)},
	})
	if store.IsUniqueViolation(err) {
		// Created concurrently.
		return c.Settings.FindUniqueOrThrow(ctx, store.SettingsFindUniqueArgs{Where: defaultSettingsWhere})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}
	log.Info("created default settings")
	return settings, nil
}

// Update writes the given settings fields, creating the row when missing.
func (s *SettingsService) Update(ctx context.Context, in store.SettingsUpdateInput) (*store.Settings, error) {
	settings, err := s.client.Settings.Upsert(ctx, store.SettingsUpsertArgs{
		Where: defaultSettingsWhere,
		Create: store.SettingsCreateInput{
			ID:           store.Ptr(store.DefaultSettingsID),
			Theme:        in.Theme,
			Language:     in.Language,
			VoiceEnabled: in.VoiceEnabled,
			AutoSpeak:    in.AutoSpeak,
		},
		Update: in,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}
